package app

import (
	"fmt"

	"fleetgate/internal/agentdetails"
	"fleetgate/internal/initseq"
	"fleetgate/internal/kibana"
	"fleetgate/internal/license"
	"fleetgate/internal/metrics"
	"fleetgate/pkg/logging"
)

// Services holds the collaborators built from one configuration.
//
// Services are rebuilt as a unit when the configuration file changes, so
// nothing here outlives the configuration it was built from.
type Services struct {
	// Kibana is the HTTP client for the Fleet and licensing APIs.
	Kibana *kibana.Client

	// Sequencer runs the permission check and setup for each mount.
	Sequencer *initseq.Sequencer

	// License is the scoped license watcher, started on mount and stopped on teardown.
	License *license.Service

	// Agents loads the agent details model.
	Agents *agentdetails.Loader

	// Metrics records sequencer transitions.
	Metrics *metrics.Recorder
}

// InitializeServices builds all services from cfg.FleetgateConfig.
func InitializeServices(cfg *Config) (*Services, error) {
	if cfg.FleetgateConfig == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	fc := cfg.FleetgateConfig

	opts := []kibana.ClientOption{kibana.WithTimeout(fc.Kibana.Timeout)}
	switch {
	case fc.Kibana.APIKey != "":
		opts = append(opts, kibana.WithAPIKey(fc.Kibana.APIKey))
	case fc.Kibana.Username != "":
		opts = append(opts, kibana.WithBasicAuth(fc.Kibana.Username, fc.Kibana.Password))
	default:
		logging.Warn("Services", "No Kibana credentials configured; requests will be anonymous")
	}
	if fc.Kibana.Space != "" {
		opts = append(opts, kibana.WithSpace(fc.Kibana.Space))
	}

	client, err := kibana.NewClient(fc.Kibana.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create kibana client: %w", err)
	}

	seq := initseq.New(client, client)
	recorder := metrics.NewRecorder()
	seq.OnTransition(recorder.Observe)

	logging.Debug("Services", "Services initialized for %s", fc.Kibana.URL)

	return &Services{
		Kibana:    client,
		Sequencer: seq,
		License:   license.NewService(client, fc.License.PollInterval),
		Agents:    agentdetails.NewLoader(client, fc.Kibana.Version, fc.Agents.PollInterval),
		Metrics:   recorder,
	}, nil
}

