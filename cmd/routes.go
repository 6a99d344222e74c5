package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"fleetgate/internal/config"
	"fleetgate/internal/formatting"
	"fleetgate/internal/routes"
)

var (
	routesOutputFormat string
	routesQuiet        bool
)

// routesCmd lists the console's pages or resolves one path.
var routesCmd = &cobra.Command{
	Use:   "routes [path]",
	Short: "List console routes or resolve a path",
	Long: `Without arguments, lists every named console page with its path
pattern and section. Pages in the fleet section are only reachable when
agents.enabled is true.

With a path, resolves it the way the console router would, using
agents.enabled from the configuration.

Examples:
  fleetgate routes
  fleetgate routes /fleet/agents/abc/details`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRoutes,
}

func init() {
	rootCmd.AddCommand(routesCmd)

	routesCmd.Flags().StringVarP(&routesOutputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	routesCmd.Flags().BoolVarP(&routesQuiet, "quiet", "q", false, "Suppress non-essential output")
}

func runRoutes(cmd *cobra.Command, args []string) error {
	format, err := formatting.ParseOutputFormat(routesOutputFormat)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		f := formatting.New(formatting.Options{Format: format, Quiet: routesQuiet, Out: cmd.OutOrStdout()})
		return f.FormatRoutes(routes.Entries())
	}

	fc, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	m := routes.Resolve(args[0], routes.Options{AgentsEnabled: fc.Agents.Enabled})

	if format == formatting.FormatTable {
		if m.Redirect != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> redirect %s\n", args[0], m.Redirect)
			return nil
		}
		params, _ := json.Marshal(m.Params)
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s) %s\n", args[0], m.Page, m.Section, params)
		return nil
	}
	if format == formatting.FormatYAML {
		out, err := yaml.Marshal(m)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatting.PrettyJSON(m))
	return nil
}
