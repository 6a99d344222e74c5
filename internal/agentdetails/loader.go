package agentdetails

import (
	"context"
	"time"

	"fleetgate/internal/api"
	"fleetgate/pkg/logging"
)

// DefaultPollInterval matches the refresh cadence of the agent details page.
const DefaultPollInterval = 5 * time.Second

// Loader fetches an agent and its policy and turns them into a Page.
type Loader struct {
	reader        api.AgentReader
	kibanaVersion string
	pollInterval  time.Duration
}

// NewLoader creates a loader. A non-positive interval uses DefaultPollInterval.
func NewLoader(reader api.AgentReader, kibanaVersion string, pollInterval time.Duration) *Loader {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Loader{reader: reader, kibanaVersion: kibanaVersion, pollInterval: pollInterval}
}

// Load performs one agent request followed by a policy request when the
// agent references a policy. A failed policy lookup only degrades the header.
func (l *Loader) Load(ctx context.Context, agentID, tabID string) Page {
	return Build(agentID, tabID, l.kibanaVersion, l.fetch(ctx, agentID))
}

func (l *Loader) fetch(ctx context.Context, agentID string) LoadState {
	agent, err := l.reader.GetAgent(ctx, agentID)
	if err != nil {
		if !api.IsNotFound(err) {
			logging.Warn("AgentDetails", "Failed to load agent %s: %v", agentID, err)
		}
		return LoadState{AgentErr: err}
	}

	st := LoadState{Agent: agent}
	if agent.PolicyID == "" {
		return st
	}
	policy, err := l.reader.GetAgentPolicy(ctx, agent.PolicyID)
	if err != nil {
		logging.Debug("AgentDetails", "Policy %s for agent %s unavailable: %v", agent.PolicyID, agentID, err)
		return st
	}
	st.Policy = policy
	return st
}

// Watch emits the initial loading page, then a fresh page on every poll
// until ctx ends. Refreshes keep the previous agent visible while the next
// request is in flight, so only the first emission shows the loading body.
func (l *Loader) Watch(ctx context.Context, agentID, tabID string, emit func(Page)) {
	emit(Build(agentID, tabID, l.kibanaVersion, LoadState{Loading: true, InitialRequest: true}))

	ticker := time.NewTicker(l.pollInterval)
	defer ticker.Stop()

	for {
		st := l.fetch(ctx, agentID)
		if ctx.Err() != nil {
			return
		}
		emit(Build(agentID, tabID, l.kibanaVersion, st))

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
