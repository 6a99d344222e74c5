// Package agentdetails builds the model behind the agent details page: the
// header summary, the tab strip and which body to show while the agent and
// its policy load.
package agentdetails

import (
	"fmt"

	"fleetgate/internal/api"
	"fleetgate/internal/routes"
)

// Tab is one of the page's sub-tabs.
type Tab string

const (
	TabActivity Tab = "activity"
	TabDetails  Tab = "details"
)

// BodyKind selects the page body.
type BodyKind string

const (
	BodyLoading  BodyKind = "loading"
	BodyError    BodyKind = "error"
	BodyNotFound BodyKind = "not_found"
	BodyContent  BodyKind = "content"
)

// Header is the summary strip above the tabs. Status, Policy and
// AgentVersion are only filled once the agent is known.
type Header struct {
	Title            string `json:"title"`
	BackHref         string `json:"backHref"`
	Status           string `json:"status,omitempty"`
	Policy           string `json:"policy,omitempty"`
	PolicyHref       string `json:"policyHref,omitempty"`
	PolicyLoading    bool   `json:"policyLoading,omitempty"`
	AgentVersion     string `json:"agentVersion,omitempty"`
	UpgradeAvailable bool   `json:"upgradeAvailable,omitempty"`
}

// TabLink is one entry of the tab strip.
type TabLink struct {
	ID       Tab    `json:"id"`
	Name     string `json:"name"`
	Href     string `json:"href"`
	Selected bool   `json:"selected"`
}

// Body is what fills the page under the tabs.
type Body struct {
	Kind    BodyKind `json:"kind"`
	Title   string   `json:"title,omitempty"`
	Message string   `json:"message,omitempty"`
	Tab     Tab      `json:"tab,omitempty"`
}

// Page is the complete model.
type Page struct {
	AgentID    string           `json:"agentId"`
	Header     Header           `json:"header"`
	Tabs       []TabLink        `json:"tabs"`
	Body       Body             `json:"body"`
	Breadcrumb string           `json:"breadcrumb,omitempty"`
	Agent      *api.Agent       `json:"agent,omitempty"`
	Policy     *api.AgentPolicy `json:"policy,omitempty"`
}

// LoadState is the raw request state the page is built from.
type LoadState struct {
	Loading        bool
	InitialRequest bool
	Agent          *api.Agent
	AgentErr       error
	Policy         *api.AgentPolicy
	PolicyLoading  bool
}

// Build assembles the page for agentID on tabID from the given load state.
func Build(agentID, tabID, kibanaVersion string, st LoadState) Page {
	p := Page{
		AgentID: agentID,
		Tabs:    buildTabs(agentID, tabID),
		Agent:   st.Agent,
		Policy:  st.Policy,
	}
	p.Header.BackHref = href(routes.PageFleetAgentList, nil)

	initialLoad := st.Loading && st.InitialRequest
	if !initialLoad {
		p.Header.Title = fmt.Sprintf("Agent '%s'", agentID)
		if st.Agent != nil {
			if host, ok := st.Agent.Hostname(); ok {
				p.Header.Title = host
			}
		}
	}

	if st.Agent != nil {
		fillHeader(&p.Header, st, kibanaVersion)
	}

	switch {
	case initialLoad:
		p.Body = Body{Kind: BodyLoading}
	case st.AgentErr != nil && api.IsNotFound(st.AgentErr):
		p.Body = notFound(agentID)
	case st.AgentErr != nil:
		p.Body = Body{Kind: BodyError, Title: "Error loading agent", Message: st.AgentErr.Error()}
	case st.Agent != nil:
		p.Body = Body{Kind: BodyContent, Tab: selectedTab(tabID)}
		p.Breadcrumb = "-"
		if host, ok := st.Agent.Hostname(); ok {
			p.Breadcrumb = host
		}
	default:
		p.Body = notFound(agentID)
	}
	return p
}

func notFound(agentID string) Body {
	return Body{
		Kind:    BodyNotFound,
		Title:   "Agent not found",
		Message: fmt.Sprintf("Cannot find agent ID %s", agentID),
	}
}

func fillHeader(h *Header, st LoadState, kibanaVersion string) {
	agent := st.Agent
	h.Status = HealthLabel(agent)

	switch {
	case st.PolicyLoading:
		h.PolicyLoading = true
	case st.Policy != nil:
		h.Policy = st.Policy.Name
		if h.Policy == "" {
			h.Policy = agent.PolicyID
		}
		h.PolicyHref = href(routes.PagePolicyDetails, map[string]string{"policyId": agent.PolicyID})
	case agent.PolicyID != "":
		h.Policy = agent.PolicyID
	default:
		h.Policy = "-"
	}

	h.AgentVersion = "-"
	if v, ok := agent.Version(); ok {
		h.AgentVersion = v
		h.UpgradeAvailable = IsUpgradeable(agent, kibanaVersion)
	}
}

func selectedTab(tabID string) Tab {
	if tabID == string(TabDetails) {
		return TabDetails
	}
	return TabActivity
}

func buildTabs(agentID, tabID string) []TabLink {
	return []TabLink{
		{
			ID:       TabActivity,
			Name:     "Activity log",
			Href:     href(routes.PageFleetAgentDetails, map[string]string{"agentId": agentID, "tabId": "activity"}),
			Selected: tabID == "" || tabID == string(TabActivity),
		},
		{
			ID:       TabDetails,
			Name:     "Agent details",
			Href:     href(routes.PageFleetAgentDetails, map[string]string{"agentId": agentID, "tabId": string(TabDetails)}),
			Selected: tabID == string(TabDetails),
		},
	}
}

// href builds a link for a page whose parameters are always supplied.
func href(page string, params map[string]string) string {
	h, err := routes.Href(page, params)
	if err != nil {
		return ""
	}
	return h
}

// HealthLabel is the human status shown for an agent.
func HealthLabel(agent *api.Agent) string {
	switch agent.Status {
	case "online":
		return "Online"
	case "error", "degraded":
		return "Unhealthy"
	case "inactive":
		return "Inactive"
	case "warning", "enrolling", "updating":
		return "Updating"
	case "unenrolling":
		return "Unenrolling"
	default:
		return "Offline"
	}
}
