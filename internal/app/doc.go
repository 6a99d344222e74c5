// Package app bootstraps fleetgate and owns the mounted console.
//
// # Components
//
//   - bootstrap.go: NewApplication loads configuration, configures logging
//     and builds services; Reload rebuilds them when the file changes.
//   - services.go: the Kibana client, initialization sequencer, license
//     watcher, agent details loader and metrics recorder built from one
//     configuration.
//   - shell.go: Shell is the mounted console. Mount starts the license
//     handle and launches the sequence; the returned function unmounts and
//     tears down. Remount restarts the sequence; View selects the screen.
//   - chrome.go: document title and breadcrumbs, reset on teardown.
//   - modes.go: Run serves the console until a signal arrives and reports
//     readiness to systemd.
//
// The license watcher is an explicit handle owned by the shell. It is
// started on mount and stopped by Teardown, so a torn-down console leaves
// no background polling behind.
package app
