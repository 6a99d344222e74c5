package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"
	"golang.org/x/sync/errgroup"

	"fleetgate/internal/config"
	"fleetgate/internal/view"
	"fleetgate/pkg/logging"
)

// Runner is a long-running component that stops when ctx is cancelled.
type Runner interface {
	Run(ctx context.Context) error
}

// Run mounts the console and runs server until SIGINT, SIGTERM or a server
// failure. When the configuration watch is enabled, edits to the config file
// trigger Reload.
//
// Under systemd, READY=1 is sent once the first attempt settles and STATUS=
// tracks the selected view of each attempt.
func (a *Application) Run(ctx context.Context, server Runner) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	a.Mount(gctx)
	defer a.Unmount()

	if a.config.WatchConfig {
		watcher, err := a.startConfigWatcher()
		if err != nil {
			logging.Warn("CLI", "Config watch disabled: %v", err)
		} else {
			defer watcher.Stop()
		}
	}

	g.Go(func() error {
		return server.Run(gctx)
	})

	logging.Info("CLI", "fleetgate running. Press Ctrl+C to stop.")
	err := g.Wait()

	logging.Info("CLI", "--- Shutting down ---")
	a.notify(daemon.SdNotifyStopping)
	return err
}

func (a *Application) startConfigWatcher() (*config.Watcher, error) {
	path, err := config.ResolveConfigFile(a.config.ConfigPath)
	if err != nil {
		return nil, err
	}
	watcher, err := config.NewWatcher(config.WatcherConfig{
		Path: path,
		OnChange: func() {
			if err := a.Reload(); err != nil {
				logging.Warn("CLI", "Keeping previous configuration: %v", err)
			}
		},
	})
	if err != nil {
		return nil, err
	}
	if err := watcher.Start(); err != nil {
		return nil, err
	}
	return watcher, nil
}

// reportSettled waits for an attempt to settle and reports it to systemd.
func (a *Application) reportSettled(attempt Attempt) {
	<-attempt.Done
	snap := attempt.Snapshot()
	if snap.AttemptID != attempt.ID {
		logging.Debug("CLI", "Attempt %s superseded", attempt.ID)
		return
	}
	v := view.Select(snap)
	logging.Info("CLI", "Attempt %s settled: %s", attempt.ID, v.Kind)

	a.ready.Do(func() {
		a.notify(daemon.SdNotifyReady)
	})
	a.notify(fmt.Sprintf("STATUS=%s", v.Title))
}

func notifySystemd(state string) {
	if os.Getenv("NOTIFY_SOCKET") == "" {
		return
	}
	if _, err := daemon.SdNotify(false, state); err != nil {
		logging.Warn("CLI", "systemd notify failed: %v", err)
	}
}
