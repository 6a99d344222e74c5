package api

import (
	"fmt"
	"time"
)

// PermissionErrorCode classifies why access to Fleet was refused.
type PermissionErrorCode string

const (
	// PermissionRequestError means the permission check itself could not be
	// completed, or the backend answered with something unrecognisable.
	PermissionRequestError PermissionErrorCode = "REQUEST_ERROR"
	// PermissionMissingSuperuserRole means the caller lacks the superuser role.
	PermissionMissingSuperuserRole PermissionErrorCode = "MISSING_SUPERUSER_ROLE"
	// PermissionSecurityDisabled means security is not enabled on the stack.
	PermissionSecurityDisabled PermissionErrorCode = "SECURITY_DISABLED"
)

// ParsePermissionErrorCode maps a wire value onto a known code. Empty and
// unknown values collapse to PermissionRequestError.
func ParsePermissionErrorCode(s string) PermissionErrorCode {
	switch PermissionErrorCode(s) {
	case PermissionMissingSuperuserRole:
		return PermissionMissingSuperuserRole
	case PermissionSecurityDisabled:
		return PermissionSecurityDisabled
	default:
		return PermissionRequestError
	}
}

// PermissionData is the body of a successful permission check response.
type PermissionData struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// PermissionResponse is what a PermissionOracle returns. Data is nil when the
// backend answered but the body carried no usable payload, for example on a
// non-2xx status.
type PermissionResponse struct {
	Data *PermissionData `json:"data,omitempty"`
}

// PermissionResult is the immutable outcome of one permission check.
type PermissionResult struct {
	Success   bool                `json:"success"`
	ErrorCode PermissionErrorCode `json:"errorCode,omitempty"`
}

// ResultFromResponse normalises a PermissionResponse. A missing body or a
// refusal without a code yields PermissionRequestError.
func ResultFromResponse(resp *PermissionResponse) PermissionResult {
	if resp == nil || resp.Data == nil {
		return PermissionResult{ErrorCode: PermissionRequestError}
	}
	if resp.Data.Success {
		return PermissionResult{Success: true}
	}
	return PermissionResult{ErrorCode: ParsePermissionErrorCode(resp.Data.Error)}
}

// ErrorDetail is the structured error body Kibana returns on failed requests.
type ErrorDetail struct {
	StatusCode int    `json:"statusCode,omitempty"`
	Name       string `json:"error,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Error implements the error interface so a soft setup failure can be
// carried anywhere an error is expected.
func (e *ErrorDetail) Error() string {
	switch {
	case e.Name != "" && e.Message != "":
		return fmt.Sprintf("%s: %s", e.Name, e.Message)
	case e.Message != "":
		return e.Message
	case e.Name != "":
		return e.Name
	case e.StatusCode != 0:
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	default:
		return "unknown error"
	}
}

// SetupResult is the outcome of one setup call.
type SetupResult struct {
	Error *ErrorDetail `json:"error,omitempty"`
}

// AgentResponse wraps a single agent the way the Fleet API returns it.
type AgentResponse struct {
	Item *Agent `json:"item"`
}

// Agent is the subset of a Fleet agent record fleetgate reads.
type Agent struct {
	ID                    string                 `json:"id"`
	PolicyID              string                 `json:"policy_id,omitempty"`
	PolicyRevision        int                    `json:"policy_revision,omitempty"`
	Status                string                 `json:"status,omitempty"`
	Active                bool                   `json:"active"`
	EnrolledAt            *time.Time             `json:"enrolled_at,omitempty"`
	LastCheckin           *time.Time             `json:"last_checkin,omitempty"`
	UnenrollmentStartedAt *time.Time             `json:"unenrollment_started_at,omitempty"`
	UnenrolledAt          *time.Time             `json:"unenrolled_at,omitempty"`
	LocalMetadata         map[string]interface{} `json:"local_metadata,omitempty"`
}

// Hostname returns local_metadata.host.hostname when it is a string.
func (a *Agent) Hostname() (string, bool) {
	return lookupString(a.LocalMetadata, "host", "hostname")
}

// Version returns local_metadata.elastic.agent.version when it is a string.
func (a *Agent) Version() (string, bool) {
	return lookupString(a.LocalMetadata, "elastic", "agent", "version")
}

// Upgradeable reports local_metadata.elastic.agent.upgradeable. Agents that
// predate the flag do not carry it and are reported as not upgradeable.
func (a *Agent) Upgradeable() bool {
	v, ok := lookup(a.LocalMetadata, "elastic", "agent", "upgradeable")
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

func lookup(m map[string]interface{}, path ...string) (interface{}, bool) {
	var cur interface{} = m
	for _, key := range path {
		obj, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func lookupString(m map[string]interface{}, path ...string) (string, bool) {
	v, ok := lookup(m, path...)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// AgentPolicyResponse wraps a single agent policy.
type AgentPolicyResponse struct {
	Item *AgentPolicy `json:"item"`
}

// AgentPolicy is the subset of an agent policy fleetgate reads.
type AgentPolicy struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	Namespace string `json:"namespace,omitempty"`
	Revision  int    `json:"revision,omitempty"`
}

// LicenseInfo is the license block of the licensing info endpoint.
type LicenseInfo struct {
	UID    string `json:"uid,omitempty"`
	Type   string `json:"type,omitempty"`
	Mode   string `json:"mode,omitempty"`
	Status string `json:"status,omitempty"`
}

// LicenseResponse is the licensing info envelope.
type LicenseResponse struct {
	License *LicenseInfo `json:"license,omitempty"`
}

// IsActive reports whether the license status is "active".
func (l *LicenseInfo) IsActive() bool {
	return l != nil && l.Status == "active"
}
