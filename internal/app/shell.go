package app

import (
	"context"
	"errors"
	"sync"

	"fleetgate/internal/initseq"
	"fleetgate/internal/view"
	"fleetgate/pkg/logging"
)

// ErrNotMounted is returned by operations that need a mounted console.
var ErrNotMounted = errors.New("console is not mounted")

// licenseHandle is the part of license.Service the shell drives.
type licenseHandle interface {
	Start(ctx context.Context)
	Stop()
}

// Attempt identifies one run of the initialization sequence. Done is closed
// once the attempt settles, so any number of callers may wait on it.
type Attempt struct {
	ID   string
	Done <-chan struct{}

	result *initseq.Snapshot
}

// Snapshot returns the snapshot the attempt settled on. It is only
// meaningful after Done is closed.
func (a Attempt) Snapshot() initseq.Snapshot {
	if a.result == nil {
		return initseq.Snapshot{}
	}
	select {
	case <-a.Done:
		return *a.result
	default:
		return initseq.Snapshot{}
	}
}

// Shell is the mounted console: it owns one sequencer and one license
// handle, and decides which view the console shows.
type Shell struct {
	seq     *initseq.Sequencer
	license licenseHandle
	chrome  *Chrome

	mu        sync.Mutex
	mounted   bool
	parentCtx context.Context
	cancel    context.CancelFunc
	dismissed string // attempt whose initialization error was dismissed
}

// NewShell creates an unmounted shell.
func NewShell(seq *initseq.Sequencer, license licenseHandle, chrome *Chrome) *Shell {
	if chrome == nil {
		chrome = NewChrome()
	}
	return &Shell{seq: seq, license: license, chrome: chrome}
}

// Chrome returns the shell's title and breadcrumb holder.
func (s *Shell) Chrome() *Chrome {
	return s.chrome
}

// Mount sets the base breadcrumb, starts the license handle and launches
// the initialization sequence. The returned function unmounts and tears
// down; it is safe to call more than once. Mounting an already mounted
// shell restarts the sequence.
func (s *Shell) Mount(ctx context.Context) (Attempt, func()) {
	s.mu.Lock()
	if s.mounted {
		s.mu.Unlock()
		attempt, _ := s.Remount()
		return attempt, s.unmountFunc()
	}
	s.mounted = true
	s.parentCtx = ctx
	s.mu.Unlock()

	s.chrome.SetBreadcrumbs(baseBreadcrumb())
	if s.license != nil {
		s.license.Start(ctx)
	}

	attempt := s.launch()
	logging.Info("Shell", "Console mounted (attempt %s)", attempt.ID)
	return attempt, s.unmountFunc()
}

func (s *Shell) unmountFunc() func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			s.Unmount()
			s.Teardown()
		})
	}
}

// Remount discards the current attempt and runs the sequence from scratch.
func (s *Shell) Remount() (Attempt, error) {
	s.mu.Lock()
	mounted := s.mounted
	s.mu.Unlock()
	if !mounted {
		return Attempt{}, ErrNotMounted
	}
	attempt := s.launch()
	logging.Info("Shell", "Console remounted (attempt %s)", attempt.ID)
	return attempt, nil
}

func (s *Shell) launch() Attempt {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(s.parentCtx)
	s.cancel = cancel
	s.dismissed = ""
	s.mu.Unlock()

	id, settled := s.seq.Launch(ctx)
	done := make(chan struct{})
	result := new(initseq.Snapshot)
	go func() {
		*result = <-settled
		close(done)
	}()
	return Attempt{ID: id, Done: done, result: result}
}

// Unmount cancels the in-flight attempt and discards its results.
func (s *Shell) Unmount() {
	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return
	}
	s.mounted = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.dismissed = ""
	s.mu.Unlock()

	s.seq.Unmount()
	logging.Info("Shell", "Console unmounted")
}

// Teardown resets the document title and breadcrumbs and releases the
// license handle. It is idempotent.
func (s *Shell) Teardown() {
	s.chrome.Reset()
	if s.license != nil {
		s.license.Stop()
	}
	logging.Debug("Shell", "Teardown complete")
}

// Mounted reports whether the console is mounted.
func (s *Shell) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted
}

// Snapshot returns the sequencer snapshot.
func (s *Shell) Snapshot() initseq.Snapshot {
	return s.seq.Snapshot()
}

// View selects the screen for the current snapshot. A dismissed
// initialization error gives way to the main view for the rest of the
// attempt.
func (s *Shell) View() view.View {
	snap := s.seq.Snapshot()
	v := view.Select(snap)

	s.mu.Lock()
	dismissed := s.dismissed
	s.mu.Unlock()

	if v.Kind == view.KindInitializationError && dismissed != "" && dismissed == snap.AttemptID {
		return view.Select(initseq.Snapshot{
			AttemptID:     snap.AttemptID,
			State:         initseq.Ready(nil),
			IsInitialized: true,
		})
	}
	return v
}

// DismissInitializationError hides the initialization error banner for the
// current attempt. It reports false when there is no error to dismiss or it
// was already dismissed.
func (s *Shell) DismissInitializationError() bool {
	snap := s.seq.Snapshot()
	if snap.State.Phase != initseq.PhaseReady || snap.InitializationError == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dismissed == snap.AttemptID {
		return false
	}
	s.dismissed = snap.AttemptID
	return true
}
