package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fleetgate/internal/app"
	"fleetgate/internal/server"
)

// serveWatchConfig remounts the console when the configuration file changes.
var serveWatchConfig bool

// serveHost and servePort override server.host and server.port from the config.
var (
	serveHost string
	servePort int
)

// serveCmd starts the HTTP surface.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the initialization sequence and serve the console gate over HTTP",
	Long: `Mounts the console: checks Fleet permissions, runs Fleet setup and
keeps the license current, then serves the result over HTTP until
interrupted.

Endpoints:
  GET  /healthz              liveness
  GET  /api/status           initialization state and selected view
  POST /api/remount          restart the initialization sequence (?wait=true to block)
  POST /api/dismiss          hide the initialization error banner
  GET  /app/*path            resolve a console path behind the gate
  GET  /api/agents/:agentId  agent details (?tab=activity|details)
  GET  /metrics              Prometheus metrics

Under systemd (Type=notify) READY=1 is sent once the first attempt settles.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := app.NewConfig(debug, false, configPath)
	cfg.WatchConfig = serveWatchConfig

	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	settings := application.Settings()
	host := settings.Server.Host
	if serveHost != "" {
		host = serveHost
	}
	port := settings.Server.Port
	if servePort != 0 {
		port = servePort
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return application.Run(ctx, server.New(application, server.Addr(host, port)))
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveWatchConfig, "watch-config", false, "Reload and remount when the configuration file changes")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen host (overrides server.host)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (overrides server.port)")
}
