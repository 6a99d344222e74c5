// Package routes holds the console's page table: which section a path
// belongs to, which sections are gated by configuration, and how to build
// links to named pages.
package routes

import (
	"fmt"
	"sort"
	"strings"
)

// Section is a top-level area of the console.
type Section string

const (
	SectionOverview     Section = "overview"
	SectionIntegrations Section = "epm"
	SectionPolicies     Section = "agent_policy"
	SectionDataStreams  Section = "data_stream"
	SectionFleet        Section = "fleet"
)

// Page names used with Href.
const (
	PageOverview                = "overview"
	PageIntegrations            = "integrations"
	PagePolicies                = "policies"
	PagePolicyDetails           = "policy_details"
	PageDataStreams             = "data_streams"
	PageFleet                   = "fleet"
	PageFleetAgentList          = "fleet_agent_list"
	PageFleetAgentDetails       = "fleet_agent_details"
	PageFleetAgentDetailsEvents = "fleet_agent_details_events"
	PageFleetAgentDetailsInfo   = "fleet_agent_details_details"
	PageFleetEnrollmentTokens   = "fleet_enrollment_tokens"
)

// Paths maps page names onto path patterns. ":name" is a parameter and a
// trailing "?" marks it optional.
var Paths = map[string]string{
	PageOverview:                "/",
	PageIntegrations:            "/integrations/:tabId?",
	PagePolicies:                "/policies",
	PagePolicyDetails:           "/policies/:policyId/:tabId?",
	PageDataStreams:             "/data-streams",
	PageFleet:                   "/fleet",
	PageFleetAgentList:          "/fleet/agents",
	PageFleetAgentDetails:       "/fleet/agents/:agentId/:tabId?",
	PageFleetAgentDetailsEvents: "/fleet/agents/:agentId",
	PageFleetAgentDetailsInfo:   "/fleet/agents/:agentId/details",
	PageFleetEnrollmentTokens:   "/fleet/enrollment-tokens",
}

type route struct {
	section   Section
	page      string
	exact     bool
	protected bool
}

// Order matters: the first matching route wins.
var table = []route{
	{section: SectionIntegrations, page: PageIntegrations},
	{section: SectionPolicies, page: PagePolicies},
	{section: SectionDataStreams, page: PageDataStreams},
	{section: SectionFleet, page: PageFleet, protected: true},
	{section: SectionOverview, page: PageOverview, exact: true},
}

// Options carries the configuration that gates protected sections.
type Options struct {
	AgentsEnabled bool
}

// Match is the result of resolving a path. When Redirect is non-empty the
// caller must navigate there instead of rendering Section.
type Match struct {
	Section  Section           `json:"section,omitempty"`
	Page     string            `json:"page,omitempty"`
	Params   map[string]string `json:"params,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
}

// Resolve finds the section for path. Protected sections redirect to "/"
// when not allowed, and unknown paths redirect to "/".
func Resolve(path string, opts Options) Match {
	path = normalize(path)
	for _, r := range table {
		params, ok := matchPattern(Paths[r.page], path, r.exact)
		if !ok {
			continue
		}
		if r.protected && !opts.AgentsEnabled {
			return Match{Redirect: Paths[PageOverview]}
		}
		m := Match{Section: r.section, Page: r.page, Params: params}
		if r.section == SectionFleet {
			refineFleet(path, &m)
		}
		return m
	}
	return Match{Redirect: Paths[PageOverview]}
}

// refineFleet narrows a fleet match to the agent pages, where the agent
// details page picks its tab from the path.
func refineFleet(path string, m *Match) {
	params, ok := matchPattern(Paths[PageFleetAgentDetails], path, true)
	if !ok || params["agentId"] == "" {
		if _, ok := matchPattern(Paths[PageFleetAgentList], path, true); ok {
			m.Page = PageFleetAgentList
		} else if _, ok := matchPattern(Paths[PageFleetEnrollmentTokens], path, true); ok {
			m.Page = PageFleetEnrollmentTokens
		}
		return
	}
	m.Page = PageFleetAgentDetails
	m.Params = params
}

// Href builds the path for a named page. Missing required parameters are an error.
func Href(page string, params map[string]string) (string, error) {
	pattern, ok := Paths[page]
	if !ok {
		return "", fmt.Errorf("unknown page %q", page)
	}
	var out []string
	for _, seg := range splitPath(pattern) {
		if !strings.HasPrefix(seg, ":") {
			out = append(out, seg)
			continue
		}
		name, optional := paramName(seg)
		v := params[name]
		if v == "" {
			if optional {
				continue
			}
			return "", fmt.Errorf("page %q requires parameter %q", page, name)
		}
		out = append(out, v)
	}
	return "/" + strings.Join(out, "/"), nil
}

// Entry describes one named page for listings.
type Entry struct {
	Page      string  `json:"page" yaml:"page"`
	Path      string  `json:"path" yaml:"path"`
	Section   Section `json:"section" yaml:"section"`
	Protected bool    `json:"protected" yaml:"protected"`
}

// Entries lists every named page ordered by path.
func Entries() []Entry {
	out := make([]Entry, 0, len(Paths))
	for page, pattern := range Paths {
		e := Entry{Page: page, Path: pattern}
		for _, r := range table {
			if _, ok := matchPattern(Paths[r.page], pattern, r.exact); ok {
				e.Section = r.section
				e.Protected = r.protected
				break
			}
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Page < out[j].Page
	})
	return out
}

// matchPattern matches path against a pattern. Without exact, the pattern
// may match a leading run of whole segments.
func matchPattern(pattern, path string, exact bool) (map[string]string, bool) {
	pSegs := splitPath(pattern)
	segs := splitPath(path)
	params := map[string]string{}

	i := 0
	for _, ps := range pSegs {
		if strings.HasPrefix(ps, ":") {
			name, optional := paramName(ps)
			if i >= len(segs) {
				if optional {
					continue
				}
				return nil, false
			}
			params[name] = segs[i]
			i++
			continue
		}
		if i >= len(segs) || segs[i] != ps {
			return nil, false
		}
		i++
	}
	if exact && i != len(segs) {
		return nil, false
	}
	if len(params) == 0 {
		params = nil
	}
	return params, true
}

func paramName(seg string) (string, bool) {
	name := strings.TrimPrefix(seg, ":")
	if strings.HasSuffix(name, "?") {
		return strings.TrimSuffix(name, "?"), true
	}
	return name, false
}

func splitPath(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func normalize(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
