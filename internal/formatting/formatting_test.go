package formatting

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"fleetgate/internal/agentdetails"
	"fleetgate/internal/api"
	"fleetgate/internal/routes"
	"fleetgate/internal/view"
)

func TestParseOutputFormat(t *testing.T) {
	for _, in := range []string{"table", "json", "yaml"} {
		got, err := ParseOutputFormat(in)
		require.NoError(t, err)
		assert.Equal(t, OutputFormat(in), got)
	}

	got, err := ParseOutputFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatTable, got)

	_, err = ParseOutputFormat("xml")
	assert.Error(t, err)
}

func sampleReport() GateReport {
	return GateReport{
		KibanaURL: "http://localhost:5601",
		AttemptID: "a-1",
		Phase:     "permission_denied",
		View: view.View{
			Kind:     view.KindPermissionMissingRole,
			Title:    "Permission denied",
			Body:     "You are not authorized to access Fleet.",
			Blocking: true,
		},
		Duration: "12ms",
	}
}

func TestJSONFormatter_Gate(t *testing.T) {
	var buf bytes.Buffer
	f := New(Options{Format: FormatJSON, Out: &buf})
	require.NoError(t, f.FormatGate(sampleReport()))

	var got GateReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleReport(), got)
}

func TestYAMLFormatter_Routes(t *testing.T) {
	var buf bytes.Buffer
	f := New(Options{Format: FormatYAML, Out: &buf})
	require.NoError(t, f.FormatRoutes(routes.Entries()))

	var got []routes.Entry
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, routes.Entries(), got)
}

func TestYAMLFormatter_AgentPageUsesJSONNames(t *testing.T) {
	var buf bytes.Buffer
	f := New(Options{Format: FormatYAML, Out: &buf})
	page := agentdetails.Page{AgentID: "agent-1", Header: agentdetails.Header{Title: "web-01"}}
	require.NoError(t, f.FormatAgentPage(page))

	assert.Contains(t, buf.String(), "agentId: agent-1")
	assert.Contains(t, buf.String(), "title: web-01")
}

func TestTableFormatter_Gate(t *testing.T) {
	var buf bytes.Buffer
	f := New(Options{Format: FormatTable, Out: &buf})
	require.NoError(t, f.FormatGate(sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "Permission denied")
	assert.Contains(t, out, "You are not authorized to access Fleet.")
	assert.Contains(t, out, "permission_missing_role")
	assert.Contains(t, out, "http://localhost:5601")
}

func TestTableFormatter_GateQuiet(t *testing.T) {
	var buf bytes.Buffer
	f := New(Options{Format: FormatTable, Quiet: true, Out: &buf})
	require.NoError(t, f.FormatGate(sampleReport()))
	assert.NotContains(t, buf.String(), "http://localhost:5601")
}

func TestTableFormatter_AgentPage(t *testing.T) {
	var buf bytes.Buffer
	f := New(Options{Format: FormatTable, Out: &buf})

	page := agentdetails.Page{
		AgentID: "agent-1",
		Header: agentdetails.Header{
			Title:            "web-01",
			Status:           "Online",
			Policy:           "Default policy",
			AgentVersion:     "7.9.0",
			UpgradeAvailable: true,
		},
		Tabs: []agentdetails.TabLink{
			{ID: agentdetails.TabActivity, Name: "Activity log", Href: "/fleet/agents/agent-1", Selected: true},
			{ID: agentdetails.TabDetails, Name: "Agent details", Href: "/fleet/agents/agent-1/details"},
		},
		Body:  agentdetails.Body{Kind: agentdetails.BodyContent, Tab: agentdetails.TabActivity},
		Agent: &api.Agent{ID: "agent-1"},
	}
	require.NoError(t, f.FormatAgentPage(page))

	out := buf.String()
	assert.Contains(t, out, "web-01")
	assert.Contains(t, out, "Default policy")
	assert.Contains(t, out, "upgrade available")
	assert.Contains(t, out, "Activity log")
}

func TestTableFormatter_AgentNotFound(t *testing.T) {
	var buf bytes.Buffer
	f := New(Options{Format: FormatTable, Out: &buf})
	page := agentdetails.Page{Body: agentdetails.Body{
		Kind:    agentdetails.BodyNotFound,
		Title:   "Agent not found",
		Message: "Cannot find agent ID x",
	}}
	require.NoError(t, f.FormatAgentPage(page))
	assert.Contains(t, buf.String(), "Cannot find agent ID x")
}

func TestPrettyJSON(t *testing.T) {
	assert.Equal(t, "{\n  \"a\": 1\n}", PrettyJSON(map[string]int{"a": 1}))
	assert.Equal(t, "-", orDash(""))
	assert.Equal(t, "x", orDash("x"))
}
