package formatting

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"fleetgate/internal/agentdetails"
	"fleetgate/internal/routes"
)

// YAMLFormatter provides YAML output formatting
type YAMLFormatter struct {
	options Options
}

// FormatGate writes the report as YAML.
func (f *YAMLFormatter) FormatGate(report GateReport) error {
	return f.write(report)
}

// FormatAgentPage writes the page model as YAML. The page only carries
// JSON tags, so it is converted through its JSON form to keep field names
// identical across formats.
func (f *YAMLFormatter) FormatAgentPage(page agentdetails.Page) error {
	generic, err := viaJSON(page)
	if err != nil {
		return err
	}
	return f.write(generic)
}

// FormatRoutes writes the route table as YAML.
func (f *YAMLFormatter) FormatRoutes(entries []routes.Entry) error {
	return f.write(entries)
}

func (f *YAMLFormatter) write(v interface{}) error {
	enc := yaml.NewEncoder(f.options.Out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}
