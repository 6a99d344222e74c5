// Package logging provides the subsystem-scoped logger used throughout fleetgate.
//
// It wraps log/slog with a small call style that names the emitting
// subsystem first and takes a printf-style message:
//
//	logging.Init(logging.LevelInfo, logging.FormatText, os.Stderr)
//	logging.Info("Sequencer", "attempt %s started", attemptID)
//	logging.Error("KibanaClient", err, "setup request failed")
//
// The subsystem is emitted as the "subsystem" attribute and a non-nil error
// as the "error" attribute, so both text and JSON output can be filtered on
// them. Calls made before Init drop everything below LevelError and print
// errors to stderr.
package logging
