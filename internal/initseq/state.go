package initseq

import (
	"fmt"
	"time"

	"fleetgate/internal/api"
)

// Phase names the active variant of State.
type Phase string

const (
	PhaseNotStarted          Phase = "NotStarted"
	PhaseCheckingPermissions Phase = "CheckingPermissions"
	PhasePermissionDenied    Phase = "PermissionDenied"
	PhaseSettingUp           Phase = "SettingUp"
	PhaseReady               Phase = "Ready"
	PhaseSetupFailed         Phase = "SetupFailed"
)

// State is the initialization state. Exactly one Phase holds at a time;
// Reason is set only for PhasePermissionDenied and Err only for
// PhaseSetupFailed and for PhaseReady reached after a failed setup.
type State struct {
	Phase  Phase
	Reason api.PermissionErrorCode
	Err    error
}

func NotStarted() State          { return State{Phase: PhaseNotStarted} }
func CheckingPermissions() State { return State{Phase: PhaseCheckingPermissions} }
func SettingUp() State           { return State{Phase: PhaseSettingUp} }

// PermissionDenied builds the terminal refusal state.
func PermissionDenied(reason api.PermissionErrorCode) State {
	return State{Phase: PhasePermissionDenied, Reason: reason}
}

// SetupFailed is the short-lived state between a failed setup and Ready.
func SetupFailed(err error) State {
	return State{Phase: PhaseSetupFailed, Err: err}
}

// Ready builds the ready state; initErr may be nil.
func Ready(initErr error) State {
	return State{Phase: PhaseReady, Err: initErr}
}

// Terminal reports whether no further transition will happen for this attempt.
func (s State) Terminal() bool {
	return s.Phase == PhasePermissionDenied || s.Phase == PhaseReady
}

// Equal compares phase, reason and error identity.
func (s State) Equal(o State) bool {
	return s.Phase == o.Phase && s.Reason == o.Reason && s.Err == o.Err
}

func (s State) String() string {
	switch s.Phase {
	case PhasePermissionDenied:
		return fmt.Sprintf("%s(%s)", s.Phase, s.Reason)
	case PhaseSetupFailed:
		return fmt.Sprintf("%s(%v)", s.Phase, s.Err)
	case PhaseReady:
		if s.Err != nil {
			return fmt.Sprintf("%s(initErr=%v)", s.Phase, s.Err)
		}
	}
	return string(s.Phase)
}

// Snapshot is what callers read to pick a view. The flags mirror the
// sequencer's internal bookkeeping: IsLoading covers the permission check
// only, so a caller sees IsLoading=false and IsInitialized=false while setup
// is still running.
type Snapshot struct {
	AttemptID           string                  `json:"attemptId,omitempty"`
	State               State                   `json:"-"`
	IsLoading           bool                    `json:"isLoading"`
	PermissionError     api.PermissionErrorCode `json:"permissionError,omitempty"`
	IsInitialized       bool                    `json:"isInitialized"`
	InitializationError error                   `json:"-"`
}

// Transition is delivered to observers whenever the state changes.
type Transition struct {
	AttemptID string
	From      State
	To        State
	At        time.Time
}

// TransitionFunc receives transitions. It is called outside the sequencer's
// lock and must not block for long.
type TransitionFunc func(Transition)
