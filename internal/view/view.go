// Package view picks which of the console's mutually exclusive screens an
// initialization snapshot allows, and renders its title and message.
package view

import (
	"fmt"

	"fleetgate/internal/api"
	"fleetgate/internal/initseq"
)

// Kind identifies one screen.
type Kind string

const (
	KindLoading                    Kind = "loading"
	KindPermissionRequestError     Kind = "permission_request_error"
	KindPermissionMissingRole      Kind = "permission_missing_role"
	KindPermissionSecurityDisabled Kind = "permission_security_disabled"
	KindInitializationError        Kind = "initialization_error"
	KindMain                       Kind = "main"
)

// View is the selected screen. Blocking views replace the whole console;
// a non-blocking view is shown next to the working application.
type View struct {
	Kind     Kind   `json:"kind"`
	Title    string `json:"title"`
	Body     string `json:"body,omitempty"`
	Blocking bool   `json:"blocking"`
}

// IsPermissionError reports whether k is one of the three refusal screens.
func (k Kind) IsPermissionError() bool {
	switch k {
	case KindPermissionRequestError, KindPermissionMissingRole, KindPermissionSecurityDisabled:
		return true
	}
	return false
}

// Select maps a snapshot onto exactly one view.
func Select(snap initseq.Snapshot) View {
	kind := selectKind(snap.State)
	return render(kind, snap.State)
}

func selectKind(state initseq.State) Kind {
	switch state.Phase {
	case initseq.PhaseNotStarted, initseq.PhaseCheckingPermissions, initseq.PhaseSettingUp:
		return KindLoading
	case initseq.PhasePermissionDenied:
		switch state.Reason {
		case api.PermissionMissingSuperuserRole:
			return KindPermissionMissingRole
		case api.PermissionSecurityDisabled:
			return KindPermissionSecurityDisabled
		default:
			return KindPermissionRequestError
		}
	case initseq.PhaseSetupFailed:
		return KindInitializationError
	case initseq.PhaseReady:
		if state.Err != nil {
			return KindInitializationError
		}
		return KindMain
	default:
		panic(fmt.Sprintf("view: unhandled initialization phase %q", state.Phase))
	}
}
