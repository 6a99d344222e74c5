package agentdetails

import (
	"fleetgate/internal/api"

	"github.com/Masterminds/semver/v3"
)

// IsUpgradeable reports whether agent can be upgraded to kibanaVersion.
// Agents that are unenrolling or unenrolled, that do not advertise the
// upgradeable flag, or whose versions do not parse are never upgradeable.
// Pre-release tags on the Kibana version are ignored so a snapshot build
// still offers upgrades to agents of the previous release.
func IsUpgradeable(agent *api.Agent, kibanaVersion string) bool {
	if agent == nil || agent.UnenrollmentStartedAt != nil || agent.UnenrolledAt != nil {
		return false
	}
	agentVersion, ok := agent.Version()
	if !ok || !agent.Upgradeable() {
		return false
	}

	av, err := semver.NewVersion(agentVersion)
	if err != nil {
		return false
	}
	kv, err := semver.NewVersion(kibanaVersion)
	if err != nil {
		return false
	}
	release, err := kv.SetPrerelease("")
	if err != nil {
		return false
	}
	return av.LessThan(&release)
}
