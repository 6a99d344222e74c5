package api

import "context"

// PermissionOracle answers whether the current caller may use Fleet.
// A returned error means the check could not be performed at all.
type PermissionOracle interface {
	CheckPermissions(ctx context.Context) (*PermissionResponse, error)
}

// SetupService performs the one-time backend initialization. A soft failure
// is reported in SetupResult.Error; a returned error is a transport failure.
type SetupService interface {
	RunSetup(ctx context.Context) (*SetupResult, error)
}

// AgentReader fetches agents and their policies.
type AgentReader interface {
	GetAgent(ctx context.Context, agentID string) (*Agent, error)
	GetAgentPolicy(ctx context.Context, policyID string) (*AgentPolicy, error)
}

// LicenseReader fetches the current stack license.
type LicenseReader interface {
	GetLicense(ctx context.Context) (*LicenseInfo, error)
}
