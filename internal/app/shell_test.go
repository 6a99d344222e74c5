package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fleetgate/internal/api"
	"fleetgate/internal/initseq"
	"fleetgate/internal/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOracle struct {
	resp *api.PermissionResponse
	err  error
	gate chan struct{}
}

func (s *stubOracle) CheckPermissions(ctx context.Context) (*api.PermissionResponse, error) {
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.resp, s.err
}

type stubSetup struct {
	result *api.SetupResult
	err    error
}

func (s *stubSetup) RunSetup(ctx context.Context) (*api.SetupResult, error) {
	return s.result, s.err
}

type stubLicense struct {
	mu      sync.Mutex
	starts  int
	stops   int
	running bool
}

func (l *stubLicense) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.starts++
	l.running = true
}

func (l *stubLicense) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stops++
	l.running = false
}

func (l *stubLicense) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

func allowed() *stubOracle {
	return &stubOracle{resp: &api.PermissionResponse{Data: &api.PermissionData{Success: true}}}
}

func settle(t *testing.T, a Attempt) initseq.Snapshot {
	t.Helper()
	select {
	case <-a.Done:
		return a.Snapshot()
	case <-time.After(2 * time.Second):
		t.Fatal("attempt did not settle")
	}
	return initseq.Snapshot{}
}

func TestAttempt_DoneObservedByEveryWaiter(t *testing.T) {
	shell := NewShell(initseq.New(allowed(), &stubSetup{}), &stubLicense{}, nil)

	attempt, unmount := shell.Mount(context.Background())
	defer unmount()

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			select {
			case <-attempt.Done:
				assert.Equal(t, attempt.ID, attempt.Snapshot().AttemptID)
			case <-time.After(2 * time.Second):
				assert.Fail(t, "waiter never saw the attempt settle")
			}
		}()
	}
	wg.Wait()

	// A late waiter still sees the settled attempt.
	time.Sleep(20 * time.Millisecond)
	snap := settle(t, attempt)
	assert.Equal(t, initseq.PhaseReady, snap.State.Phase)
}

func TestAttempt_SnapshotBeforeSettle(t *testing.T) {
	assert.Equal(t, initseq.Snapshot{}, Attempt{}.Snapshot())
}

func TestShell_MountRunsSequenceAndSetsChrome(t *testing.T) {
	lic := &stubLicense{}
	shell := NewShell(initseq.New(allowed(), &stubSetup{}), lic, nil)

	attempt, unmount := shell.Mount(context.Background())
	defer unmount()

	require.NotEmpty(t, attempt.ID)
	snap := settle(t, attempt)
	assert.Equal(t, initseq.PhaseReady, snap.State.Phase)
	assert.Equal(t, view.KindMain, shell.View().Kind)

	assert.True(t, shell.Mounted())
	assert.True(t, lic.Running())
	assert.Equal(t, []Breadcrumb{{Text: "Fleet", Href: "/"}}, shell.Chrome().Breadcrumbs())
}

func TestShell_UnmountTearsDownOnce(t *testing.T) {
	lic := &stubLicense{}
	shell := NewShell(initseq.New(allowed(), &stubSetup{}), lic, nil)

	attempt, unmount := shell.Mount(context.Background())
	settle(t, attempt)
	shell.Chrome().SetTitle("Agents", BaseTitle)

	unmount()
	unmount()

	assert.False(t, shell.Mounted())
	assert.False(t, lic.Running())
	assert.Equal(t, 1, lic.stops)
	assert.Empty(t, shell.Chrome().Title())
	assert.Empty(t, shell.Chrome().Breadcrumbs())
	assert.Equal(t, initseq.PhaseNotStarted, shell.Snapshot().State.Phase)
}

func TestShell_UnmountDiscardsInFlightAttempt(t *testing.T) {
	oracle := allowed()
	oracle.gate = make(chan struct{})
	shell := NewShell(initseq.New(oracle, &stubSetup{}), &stubLicense{}, nil)

	attempt, unmount := shell.Mount(context.Background())
	assert.Equal(t, view.KindLoading, shell.View().Kind)

	unmount()
	close(oracle.gate)
	snap := settle(t, attempt)

	assert.Empty(t, snap.AttemptID)
	assert.Equal(t, initseq.PhaseNotStarted, shell.Snapshot().State.Phase)
}

func TestShell_RemountRequiresMount(t *testing.T) {
	shell := NewShell(initseq.New(allowed(), &stubSetup{}), &stubLicense{}, nil)
	_, err := shell.Remount()
	assert.ErrorIs(t, err, ErrNotMounted)
}

func TestShell_RemountStartsFreshAttempt(t *testing.T) {
	shell := NewShell(initseq.New(allowed(), &stubSetup{}), &stubLicense{}, nil)
	first, unmount := shell.Mount(context.Background())
	defer unmount()
	settle(t, first)

	second, err := shell.Remount()
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	snap := settle(t, second)
	assert.Equal(t, second.ID, snap.AttemptID)
}

func TestShell_PermissionDeniedView(t *testing.T) {
	oracle := &stubOracle{resp: &api.PermissionResponse{Data: &api.PermissionData{
		Success: false,
		Error:   string(api.PermissionMissingSuperuserRole),
	}}}
	shell := NewShell(initseq.New(oracle, &stubSetup{}), &stubLicense{}, nil)

	attempt, unmount := shell.Mount(context.Background())
	defer unmount()
	settle(t, attempt)

	v := shell.View()
	assert.Equal(t, view.KindPermissionMissingRole, v.Kind)
	assert.True(t, v.Blocking)
	assert.False(t, shell.DismissInitializationError())
}

func TestShell_DismissInitializationError(t *testing.T) {
	setup := &stubSetup{err: errors.New("connection reset")}
	shell := NewShell(initseq.New(allowed(), setup), &stubLicense{}, nil)

	attempt, unmount := shell.Mount(context.Background())
	defer unmount()
	settle(t, attempt)

	assert.Equal(t, view.KindInitializationError, shell.View().Kind)
	require.True(t, shell.DismissInitializationError())
	assert.Equal(t, view.KindMain, shell.View().Kind)
	assert.False(t, shell.DismissInitializationError(), "already dismissed for this attempt")

	// A new attempt brings the banner back.
	next, err := shell.Remount()
	require.NoError(t, err)
	settle(t, next)
	assert.Equal(t, view.KindInitializationError, shell.View().Kind)
}
