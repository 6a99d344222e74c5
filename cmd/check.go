package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"fleetgate/internal/app"
	"fleetgate/internal/formatting"
	"fleetgate/internal/view"
)

var (
	checkOutputFormat string
	checkQuiet        bool
	checkTimeout      time.Duration
)

// checkCmd runs the initialization sequence once.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the Fleet permission check and setup once",
	Long: `Runs the initialization sequence against the configured Kibana and
reports which view the console would show.

Exit codes:
  0  Fleet is ready
  1  general error
  2  configuration error
  3  permission denied or the permission check failed
  4  Fleet setup reported an error

Examples:
  fleetgate check
  fleetgate check -o json
  fleetgate check --config-path ./staging.yaml --timeout 30s`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkOutputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	checkCmd.Flags().BoolVarP(&checkQuiet, "quiet", "q", false, "Suppress non-essential output")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", time.Minute, "Give up after this long")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := formatting.ParseOutputFormat(checkOutputFormat)
	if err != nil {
		return err
	}

	application, err := app.NewApplication(app.NewConfig(debug, !debug, configPath))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	report, err := runGate(ctx, application, format == formatting.FormatTable && !checkQuiet)
	if err != nil {
		return err
	}

	f := formatting.New(formatting.Options{Format: format, Quiet: checkQuiet, Out: cmd.OutOrStdout()})
	if err := f.FormatGate(report); err != nil {
		return err
	}
	if report.View.Kind != view.KindMain {
		return &GateError{View: report.View}
	}
	return nil
}

// runGate mounts the console, waits for the attempt to settle and unmounts
// again. A spinner is shown on stderr when showProgress is set.
func runGate(ctx context.Context, application *app.Application, showProgress bool) (formatting.GateReport, error) {
	var s *spinner.Spinner
	if showProgress {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
		s.Suffix = " Checking Fleet permissions..."
		s.Start()
		defer s.Stop()
	}

	start := time.Now()
	attempt := application.Mount(ctx)
	defer application.Unmount()

	select {
	case <-attempt.Done:
	case <-ctx.Done():
		if s != nil {
			s.FinalMSG = text.FgRed.Sprint("Timed out waiting for Fleet") + "\n"
		}
		return formatting.GateReport{}, fmt.Errorf("initialization did not settle: %w", ctx.Err())
	}

	shell := application.Shell()
	snap := shell.Snapshot()
	report := formatting.GateReport{
		KibanaURL: application.Settings().Kibana.URL,
		AttemptID: attempt.ID,
		Phase:     string(snap.State.Phase),
		View:      shell.View(),
		Duration:  time.Since(start).Round(time.Millisecond).String(),
	}
	if snap.InitializationError != nil {
		report.InitializationError = snap.InitializationError.Error()
	}
	return report, nil
}
