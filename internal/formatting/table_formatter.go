package formatting

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"fleetgate/internal/agentdetails"
	"fleetgate/internal/routes"
	"fleetgate/internal/view"
	fgstrings "fleetgate/pkg/strings"
)

// TableFormatter provides rich table output formatting
type TableFormatter struct {
	options Options
}

// FormatGate prints a status line colored by outcome, followed by the
// report details.
func (f *TableFormatter) FormatGate(report GateReport) error {
	color, icon := gateStyle(report.View)
	fmt.Fprintf(f.options.Out, "%s %s\n", color.Sprint(icon), color.Sprint(report.View.Title))
	if report.View.Body != "" {
		fmt.Fprintf(f.options.Out, "  %s\n", report.View.Body)
	}
	if f.options.Quiet {
		return nil
	}

	t := f.createTable()
	t.AppendHeader(table.Row{text.FgHiCyan.Sprint("KEY"), text.FgHiCyan.Sprint("VALUE")})
	t.AppendRow(table.Row{text.FgHiCyan.Sprint("Kibana"), report.KibanaURL})
	t.AppendRow(table.Row{text.FgHiCyan.Sprint("Attempt"), report.AttemptID})
	t.AppendRow(table.Row{text.FgHiCyan.Sprint("Phase"), report.Phase})
	t.AppendRow(table.Row{text.FgHiCyan.Sprint("View"), string(report.View.Kind)})
	if report.InitializationError != "" {
		t.AppendRow(table.Row{text.FgHiCyan.Sprint("Setup error"), fgstrings.Truncate(report.InitializationError, fgstrings.DefaultCellMaxLen)})
	}
	t.AppendRow(table.Row{text.FgHiCyan.Sprint("Duration"), report.Duration})
	t.Render()
	return nil
}

func gateStyle(v view.View) (text.Colors, string) {
	switch {
	case v.Kind == view.KindMain:
		return text.Colors{text.FgGreen}, "✅"
	case v.Kind == view.KindInitializationError:
		return text.Colors{text.FgYellow}, "⚠️"
	case v.Kind.IsPermissionError():
		return text.Colors{text.FgRed}, "❌"
	default:
		return text.Colors{text.FgHiBlue}, "⏳"
	}
}

// FormatAgentPage prints the header summary and the page body.
func (f *TableFormatter) FormatAgentPage(page agentdetails.Page) error {
	switch page.Body.Kind {
	case agentdetails.BodyNotFound, agentdetails.BodyError:
		fmt.Fprintf(f.options.Out, "%s %s\n  %s\n",
			text.FgRed.Sprint("❌"), text.FgRed.Sprint(page.Body.Title), fgstrings.Truncate(page.Body.Message, fgstrings.DefaultCellMaxLen))
		return nil
	case agentdetails.BodyLoading:
		fmt.Fprintf(f.options.Out, "%s\n", text.FgHiBlue.Sprint("Loading agent..."))
		return nil
	}

	h := page.Header
	version := orDash(h.AgentVersion)
	if h.UpgradeAvailable {
		version += " " + text.FgYellow.Sprint("(upgrade available)")
	}

	t := f.createTable()
	t.SetTitle(h.Title)
	t.AppendRow(table.Row{text.FgHiCyan.Sprint("Status"), h.Status})
	t.AppendRow(table.Row{text.FgHiCyan.Sprint("Agent policy"), orDash(h.Policy)})
	t.AppendRow(table.Row{text.FgHiCyan.Sprint("Agent version"), version})
	if page.Agent != nil && page.Body.Tab == agentdetails.TabDetails {
		t.AppendSeparator()
		t.AppendRow(table.Row{text.FgHiCyan.Sprint("ID"), page.Agent.ID})
		if page.Agent.EnrolledAt != nil {
			t.AppendRow(table.Row{text.FgHiCyan.Sprint("Enrolled"), page.Agent.EnrolledAt.Format("2006-01-02 15:04:05")})
		}
		if page.Agent.LastCheckin != nil {
			t.AppendRow(table.Row{text.FgHiCyan.Sprint("Last checkin"), page.Agent.LastCheckin.Format("2006-01-02 15:04:05")})
		}
	}
	t.Render()

	if !f.options.Quiet {
		for _, tab := range page.Tabs {
			marker := " "
			if tab.Selected {
				marker = "*"
			}
			fmt.Fprintf(f.options.Out, " %s %s  %s\n", marker, tab.Name, text.Faint.Sprint(tab.Href))
		}
	}
	return nil
}

// FormatRoutes prints the route table.
func (f *TableFormatter) FormatRoutes(entries []routes.Entry) error {
	if len(entries) == 0 {
		fmt.Fprintf(f.options.Out, "%s %s\n", text.FgYellow.Sprint("📋"), text.FgYellow.Sprint("No routes found"))
		return nil
	}

	t := f.createTable()
	t.AppendHeader(table.Row{
		text.FgHiCyan.Sprint("PATH"),
		text.FgHiCyan.Sprint("PAGE"),
		text.FgHiCyan.Sprint("SECTION"),
		text.FgHiCyan.Sprint("PROTECTED"),
	})
	for _, e := range entries {
		protected := ""
		if e.Protected {
			protected = text.FgYellow.Sprint("agents.enabled")
		}
		t.AppendRow(table.Row{e.Path, e.Page, string(e.Section), protected})
	}
	t.Render()

	if !f.options.Quiet {
		fmt.Fprintf(f.options.Out, "\n%s %s %s\n",
			text.FgHiBlue.Sprint("Total:"),
			text.FgHiWhite.Sprint(len(entries)),
			text.FgHiBlue.Sprint("routes"))
	}
	return nil
}

// createTable creates a new table with standard styling
func (f *TableFormatter) createTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(f.options.Out)
	t.SetStyle(table.StyleRounded)
	return t
}
