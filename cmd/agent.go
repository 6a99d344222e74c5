package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"fleetgate/internal/agentdetails"
	"fleetgate/internal/app"
	"fleetgate/internal/formatting"
	"fleetgate/internal/view"
)

var (
	agentTab          string
	agentWatch        bool
	agentOutputFormat string
	agentQuiet        bool
)

// agentCmd shows the agent details page model.
var agentCmd = &cobra.Command{
	Use:   "agent <agent-id>",
	Short: "Show the details of one enrolled agent",
	Long: `Runs the initialization sequence and, if Fleet is usable, shows the
agent details page for the given agent: host name, health, policy, version
and whether an upgrade is available.

With --watch the page is refreshed on the agents poll interval until
interrupted.

Examples:
  fleetgate agent 8b4b0a1c-5d5e-4f41-9a3f-2d8f6a1d1c0e
  fleetgate agent 8b4b0a1c --tab details -o yaml
  fleetgate agent 8b4b0a1c --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runAgent,
}

func init() {
	rootCmd.AddCommand(agentCmd)

	agentCmd.Flags().StringVar(&agentTab, "tab", string(agentdetails.TabActivity), "Tab to show (activity, details)")
	agentCmd.Flags().BoolVarP(&agentWatch, "watch", "w", false, "Refresh until interrupted")
	agentCmd.Flags().StringVarP(&agentOutputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	agentCmd.Flags().BoolVarP(&agentQuiet, "quiet", "q", false, "Suppress non-essential output")
}

func runAgent(cmd *cobra.Command, args []string) error {
	agentID := args[0]
	format, err := formatting.ParseOutputFormat(agentOutputFormat)
	if err != nil {
		return err
	}

	application, err := app.NewApplication(app.NewConfig(debug, !debug, configPath))
	if err != nil {
		return err
	}
	if !application.RouteOptions().AgentsEnabled {
		return fmt.Errorf("fleet agents are disabled (agents.enabled is false)")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	interactive := format == formatting.FormatTable && !agentQuiet
	report, err := runGate(ctx, application, interactive)
	if err != nil {
		return err
	}
	if report.View.Blocking {
		return &GateError{View: report.View}
	}

	f := formatting.New(formatting.Options{Format: format, Quiet: agentQuiet, Out: cmd.OutOrStdout()})
	loader := application.Services().Agents

	if agentWatch {
		var renderErr error
		loader.Watch(ctx, agentID, agentTab, func(page agentdetails.Page) {
			if page.Body.Kind == agentdetails.BodyLoading {
				return
			}
			if interactive {
				fmt.Fprint(cmd.OutOrStdout(), "\033[H\033[2J")
			}
			if err := f.FormatAgentPage(page); err != nil {
				renderErr = err
			}
		})
		return renderErr
	}

	var s *spinner.Spinner
	if interactive {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
		s.Suffix = " Loading agent..."
		s.Start()
	}
	page := loader.Load(ctx, agentID, agentTab)
	if s != nil {
		s.Stop()
	}

	if err := f.FormatAgentPage(page); err != nil {
		return err
	}
	return pageError(page, report.View)
}

// pageError maps the page body onto the command's exit status. An
// initialization error is only reported once the page itself was fine.
func pageError(page agentdetails.Page, gate view.View) error {
	switch page.Body.Kind {
	case agentdetails.BodyNotFound:
		return fmt.Errorf("%s: %w", page.Body.Message, errAgentNotFound)
	case agentdetails.BodyError:
		return fmt.Errorf("%s: %s", page.Body.Title, page.Body.Message)
	}
	if gate.Kind == view.KindInitializationError {
		return &GateError{View: gate}
	}
	return nil
}
