package initseq

import (
	"errors"
	"testing"

	"fleetgate/internal/api"

	"github.com/stretchr/testify/assert"
)

func TestState_String(t *testing.T) {
	assert.Equal(t, "NotStarted", NotStarted().String())
	assert.Equal(t, "PermissionDenied(SECURITY_DISABLED)", PermissionDenied(api.PermissionSecurityDisabled).String())
	assert.Equal(t, "SetupFailed(boom)", SetupFailed(errors.New("boom")).String())
	assert.Equal(t, "Ready", Ready(nil).String())
	assert.Equal(t, "Ready(initErr=boom)", Ready(errors.New("boom")).String())
}

func TestState_Terminal(t *testing.T) {
	assert.False(t, NotStarted().Terminal())
	assert.False(t, CheckingPermissions().Terminal())
	assert.False(t, SettingUp().Terminal())
	assert.False(t, SetupFailed(errors.New("x")).Terminal())
	assert.True(t, PermissionDenied(api.PermissionRequestError).Terminal())
	assert.True(t, Ready(nil).Terminal())
}

func TestState_Equal(t *testing.T) {
	err := errors.New("x")
	assert.True(t, Ready(err).Equal(Ready(err)))
	assert.False(t, Ready(err).Equal(Ready(nil)))
	assert.False(t, PermissionDenied(api.PermissionRequestError).Equal(PermissionDenied(api.PermissionSecurityDisabled)))
}
