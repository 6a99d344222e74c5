package initseq

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fleetgate/internal/api"
	"fleetgate/pkg/logging"

	"github.com/google/uuid"
)

const subsystem = "Sequencer"

// Sequencer runs the two-phase initialization. It is safe for concurrent
// use: Snapshot may be read from any goroutine while Start runs.
type Sequencer struct {
	oracle api.PermissionOracle
	setup  api.SetupService

	mu                 sync.RWMutex
	generation         uint64
	attemptID          string
	state              State
	permissionsLoading bool
	permissionError    api.PermissionErrorCode
	initialized        bool
	initErr            error
	observers          []TransitionFunc

	newID func() string
	now   func() time.Time
}

// New creates a Sequencer in the NotStarted state.
func New(oracle api.PermissionOracle, setup api.SetupService) *Sequencer {
	return &Sequencer{
		oracle: oracle,
		setup:  setup,
		state:  NotStarted(),
		newID:  func() string { return uuid.New().String() },
		now:    time.Now,
	}
}

// OnTransition registers an observer for every state change.
func (s *Sequencer) OnTransition(fn TransitionFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Snapshot returns the current state and derived flags.
func (s *Sequencer) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Sequencer) snapshotLocked() Snapshot {
	return Snapshot{
		AttemptID:           s.attemptID,
		State:               s.state,
		IsLoading:           s.permissionsLoading,
		PermissionError:     s.permissionError,
		IsInitialized:       s.initialized,
		InitializationError: s.initErr,
	}
}

// Start resets all state and runs the sequence to completion, returning the
// snapshot it settled on. If the attempt is superseded by another Start or
// by Unmount while a call is in flight, the late result is dropped and the
// current snapshot is returned instead.
func (s *Sequencer) Start(ctx context.Context) Snapshot {
	gen, attemptID := s.reset()
	return s.run(ctx, gen, attemptID)
}

// Launch resets state synchronously and runs the sequence in the
// background. It returns the new attempt ID and a channel that receives the
// settled snapshot once.
func (s *Sequencer) Launch(ctx context.Context) (string, <-chan Snapshot) {
	gen, attemptID := s.reset()
	done := make(chan Snapshot, 1)
	go func() {
		done <- s.run(ctx, gen, attemptID)
	}()
	return attemptID, done
}

func (s *Sequencer) run(ctx context.Context, gen uint64, attemptID string) Snapshot {
	logging.Info(subsystem, "Initialization attempt %s started", attemptID)

	if !s.apply(gen, func() {
		s.permissionsLoading = true
		s.state = CheckingPermissions()
	}) {
		return s.Snapshot()
	}

	resp, err := s.checkPermissions(ctx)
	if err != nil {
		logging.Warn(subsystem, "Permission check for attempt %s failed: %v", attemptID, err)
		s.deny(gen, api.PermissionRequestError)
		return s.Snapshot()
	}

	result := api.ResultFromResponse(resp)
	if !result.Success {
		logging.Warn(subsystem, "Permission denied for attempt %s: %s", attemptID, result.ErrorCode)
		s.deny(gen, result.ErrorCode)
		return s.Snapshot()
	}

	if !s.apply(gen, func() {
		s.permissionsLoading = false
		s.state = SettingUp()
	}) {
		logging.Debug(subsystem, "Attempt %s superseded before setup", attemptID)
		return s.Snapshot()
	}

	if setupErr := s.runSetup(ctx); setupErr != nil {
		logging.Error(subsystem, setupErr, "Fleet setup reported an error for attempt %s", attemptID)
		if !s.apply(gen, func() {
			s.initErr = setupErr
			s.state = SetupFailed(setupErr)
		}) {
			return s.Snapshot()
		}
	}

	s.apply(gen, func() {
		s.initialized = true
		s.state = Ready(s.initErr)
	})
	logging.Info(subsystem, "Initialization attempt %s settled", attemptID)
	return s.Snapshot()
}

// Unmount discards the current attempt. In-flight results that arrive
// afterwards are ignored.
func (s *Sequencer) Unmount() {
	s.mu.Lock()
	s.generation++
	old := s.state
	attemptID := s.attemptID
	s.clearLocked()
	s.attemptID = ""
	observers := s.observers
	s.mu.Unlock()

	s.notify(observers, attemptID, old, NotStarted())
}

func (s *Sequencer) reset() (uint64, string) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	old := s.state
	s.attemptID = s.newID()
	attemptID := s.attemptID
	s.clearLocked()
	observers := s.observers
	s.mu.Unlock()

	s.notify(observers, attemptID, old, NotStarted())
	return gen, attemptID
}

func (s *Sequencer) clearLocked() {
	s.state = NotStarted()
	s.permissionsLoading = false
	s.permissionError = ""
	s.initialized = false
	s.initErr = nil
}

func (s *Sequencer) deny(gen uint64, code api.PermissionErrorCode) {
	s.apply(gen, func() {
		s.permissionsLoading = false
		s.permissionError = code
		s.state = PermissionDenied(code)
	})
}

// apply runs mutate under the lock if gen is still current and notifies
// observers afterwards. It reports whether the mutation was applied.
func (s *Sequencer) apply(gen uint64, mutate func()) bool {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return false
	}
	old := s.state
	mutate()
	next := s.state
	attemptID := s.attemptID
	observers := s.observers
	s.mu.Unlock()

	s.notify(observers, attemptID, old, next)
	return true
}

func (s *Sequencer) notify(observers []TransitionFunc, attemptID string, from, to State) {
	if from.Equal(to) {
		return
	}
	logging.Debug(subsystem, "Attempt %s: %s -> %s", attemptID, from, to)
	t := Transition{AttemptID: attemptID, From: from, To: to, At: s.now()}
	for _, fn := range observers {
		fn(t)
	}
}

func (s *Sequencer) checkPermissions(ctx context.Context) (resp *api.PermissionResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp, err = nil, fmt.Errorf("permission check panicked: %v", r)
		}
	}()
	if s.oracle == nil {
		return nil, fmt.Errorf("no permission oracle configured")
	}
	return s.oracle.CheckPermissions(ctx)
}

// runSetup folds both failure shapes (transport error and structured error
// body) into a single error value.
func (s *Sequencer) runSetup(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("setup panicked: %v", r)
		}
	}()
	if s.setup == nil {
		return fmt.Errorf("no setup service configured")
	}
	result, err := s.setup.RunSetup(ctx)
	if err != nil {
		return err
	}
	if result != nil && result.Error != nil {
		return result.Error
	}
	return nil
}
