package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"fleetgate/internal/config"
	"fleetgate/internal/routes"
	"fleetgate/pkg/logging"
)

// Application bootstraps fleetgate and owns the mounted console.
//
// The Application follows a two-phase initialization pattern:
//  1. Bootstrap phase: load configuration, initialize logging, build services
//  2. Execution phase: mount the console and serve it (see Run)
//
// Example usage:
//
//	cfg := app.NewConfig(false, false, "")
//	application, err := app.NewApplication(cfg)
//	if err != nil {
//	    return fmt.Errorf("failed to create application: %w", err)
//	}
//	return application.Run(ctx, srv)
type Application struct {
	config *Config
	chrome *Chrome

	mu       sync.RWMutex
	services *Services
	shell    *Shell
	mountCtx context.Context
	unmount  func()
	ready    sync.Once

	// notify delivers service state to the supervisor.
	notify func(state string)
}

// NewApplication loads configuration (unless cfg.FleetgateConfig is already
// set), configures logging and builds the services. The console is not
// mounted yet.
func NewApplication(cfg *Config) (*Application, error) {
	initLogging(cfg, nil)

	if cfg.FleetgateConfig == nil {
		fc, err := config.LoadConfig(cfg.ConfigPath)
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load fleetgate configuration")
			return nil, fmt.Errorf("failed to load fleetgate configuration: %w", err)
		}
		cfg.FleetgateConfig = &fc
	}
	initLogging(cfg, cfg.FleetgateConfig)

	services, err := InitializeServices(cfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	chrome := NewChrome()
	return &Application{
		config:   cfg,
		chrome:   chrome,
		services: services,
		shell:    NewShell(services.Sequencer, services.License, chrome),
		notify:   notifySystemd,
	}, nil
}

// initLogging applies --debug, --silent and the logging section of fc, if loaded.
func initLogging(cfg *Config, fc *config.FleetgateConfig) {
	level := logging.LevelInfo
	format := logging.FormatText
	if fc != nil {
		if l, ok := logging.ParseLevel(fc.Logging.Level); ok {
			level = l
		}
		if fc.Logging.Format == string(logging.FormatJSON) {
			format = logging.FormatJSON
		}
	}
	if cfg.Debug {
		level = logging.LevelDebug
	}

	var out io.Writer = os.Stderr
	if cfg.Silent {
		out = io.Discard
	}
	logging.Init(level, format, out)
}

// Config returns the application configuration.
func (a *Application) Config() *Config {
	return a.config
}

// Settings returns the currently loaded fleetgate configuration.
func (a *Application) Settings() config.FleetgateConfig {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return *a.config.FleetgateConfig
}

// Services returns the services built from the current configuration.
func (a *Application) Services() *Services {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.services
}

// Shell returns the current console shell.
func (a *Application) Shell() *Shell {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.shell
}

// Chrome returns the title and breadcrumb holder shared by every shell.
func (a *Application) Chrome() *Chrome {
	return a.chrome
}

// RouteOptions returns route gating derived from the configuration.
func (a *Application) RouteOptions() routes.Options {
	return routes.Options{AgentsEnabled: a.Settings().Agents.Enabled}
}

// Mount mounts the console. Mounting twice restarts the sequence.
func (a *Application) Mount(ctx context.Context) Attempt {
	a.mu.Lock()
	defer a.mu.Unlock()

	attempt, unmount := a.shell.Mount(ctx)
	a.mountCtx = ctx
	a.unmount = unmount
	go a.reportSettled(attempt)
	return attempt
}

// Remount re-runs the initialization sequence from scratch.
func (a *Application) Remount() (Attempt, error) {
	attempt, err := a.Shell().Remount()
	if err != nil {
		return Attempt{}, err
	}
	go a.reportSettled(attempt)
	return attempt, nil
}

// Unmount unmounts the console and tears it down.
func (a *Application) Unmount() {
	a.mu.Lock()
	unmount := a.unmount
	a.unmount = nil
	a.mountCtx = nil
	a.mu.Unlock()

	if unmount != nil {
		unmount()
	}
}

// Reload loads the configuration again, rebuilds the services and, if the
// console was mounted, mounts a fresh shell in place of the old one. On a
// configuration error the running console is left untouched.
func (a *Application) Reload() error {
	fc, err := config.LoadConfig(a.config.ConfigPath)
	if err != nil {
		logging.Error("Bootstrap", err, "Configuration reload rejected")
		return fmt.Errorf("failed to reload configuration: %w", err)
	}

	next := *a.config
	next.FleetgateConfig = &fc
	services, err := InitializeServices(&next)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	a.mu.Lock()
	oldUnmount := a.unmount
	ctx := a.mountCtx
	a.config.FleetgateConfig = &fc
	a.services = services
	a.shell = NewShell(services.Sequencer, services.License, a.chrome)
	a.unmount = nil
	a.mu.Unlock()

	if oldUnmount != nil {
		oldUnmount()
	}
	initLogging(a.config, &fc)
	logging.Info("Bootstrap", "Configuration reloaded")

	if ctx != nil && ctx.Err() == nil {
		a.Mount(ctx)
	}
	return nil
}
