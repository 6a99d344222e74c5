package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePermissionErrorCode(t *testing.T) {
	tests := []struct {
		in   string
		want PermissionErrorCode
	}{
		{"MISSING_SUPERUSER_ROLE", PermissionMissingSuperuserRole},
		{"SECURITY_DISABLED", PermissionSecurityDisabled},
		{"REQUEST_ERROR", PermissionRequestError},
		{"", PermissionRequestError},
		{"SOMETHING_NEW", PermissionRequestError},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePermissionErrorCode(tt.in))
		})
	}
}

func TestResultFromResponse(t *testing.T) {
	tests := []struct {
		name string
		resp *PermissionResponse
		want PermissionResult
	}{
		{"nil response", nil, PermissionResult{ErrorCode: PermissionRequestError}},
		{"no data", &PermissionResponse{}, PermissionResult{ErrorCode: PermissionRequestError}},
		{"success", &PermissionResponse{Data: &PermissionData{Success: true}}, PermissionResult{Success: true}},
		{
			"refused with code",
			&PermissionResponse{Data: &PermissionData{Error: "SECURITY_DISABLED"}},
			PermissionResult{ErrorCode: PermissionSecurityDisabled},
		},
		{
			"refused without code",
			&PermissionResponse{Data: &PermissionData{}},
			PermissionResult{ErrorCode: PermissionRequestError},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResultFromResponse(tt.resp))
		})
	}
}

func TestErrorDetail_Error(t *testing.T) {
	assert.Equal(t, "Internal Server Error: boom", (&ErrorDetail{Name: "Internal Server Error", Message: "boom"}).Error())
	assert.Equal(t, "boom", (&ErrorDetail{Message: "boom"}).Error())
	assert.Equal(t, "Conflict", (&ErrorDetail{Name: "Conflict"}).Error())
	assert.Equal(t, "request failed with status 502", (&ErrorDetail{StatusCode: 502}).Error())
	assert.Equal(t, "unknown error", (&ErrorDetail{}).Error())
}

func TestAgentMetadata(t *testing.T) {
	agent := &Agent{
		ID: "a1",
		LocalMetadata: map[string]interface{}{
			"host": map[string]interface{}{"hostname": "web-01"},
			"elastic": map[string]interface{}{
				"agent": map[string]interface{}{"version": "7.10.0", "upgradeable": true},
			},
		},
	}

	host, ok := agent.Hostname()
	assert.True(t, ok)
	assert.Equal(t, "web-01", host)

	version, ok := agent.Version()
	assert.True(t, ok)
	assert.Equal(t, "7.10.0", version)
	assert.True(t, agent.Upgradeable())

	bare := &Agent{ID: "a2", LocalMetadata: map[string]interface{}{"host": "not-an-object"}}
	_, ok = bare.Hostname()
	assert.False(t, ok)
	_, ok = bare.Version()
	assert.False(t, ok)
	assert.False(t, bare.Upgradeable())
}

func TestNotFoundError(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewAgentNotFoundError("abc"))
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "wrapped: agent abc not found", err.Error())
	assert.False(t, IsNotFound(errors.New("other")))
}

func TestRequestError(t *testing.T) {
	err := &RequestError{Method: "POST", Path: "/api/fleet/setup", StatusCode: 500,
		Detail: &ErrorDetail{Name: "Internal Server Error", Message: "boom"}}
	assert.Equal(t, "POST /api/fleet/setup: status 500: Internal Server Error: boom", err.Error())
	assert.True(t, IsRequestError(fmt.Errorf("x: %w", err)))

	plain := &RequestError{Method: "GET", Path: "/x", StatusCode: 404}
	assert.Equal(t, "GET /x: status 404", plain.Error())
}
