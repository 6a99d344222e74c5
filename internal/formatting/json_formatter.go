package formatting

import (
	"fmt"

	"fleetgate/internal/agentdetails"
	"fleetgate/internal/routes"
)

// JSONFormatter provides structured JSON output formatting
type JSONFormatter struct {
	options Options
}

// FormatGate writes the report as JSON.
func (f *JSONFormatter) FormatGate(report GateReport) error {
	return f.write(report)
}

// FormatAgentPage writes the page model as JSON.
func (f *JSONFormatter) FormatAgentPage(page agentdetails.Page) error {
	return f.write(page)
}

// FormatRoutes writes the route table as JSON.
func (f *JSONFormatter) FormatRoutes(entries []routes.Entry) error {
	return f.write(entries)
}

func (f *JSONFormatter) write(v interface{}) error {
	_, err := fmt.Fprintln(f.options.Out, PrettyJSON(v))
	return err
}
