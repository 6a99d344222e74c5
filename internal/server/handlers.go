package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fleetgate/internal/agentdetails"
	"fleetgate/internal/app"
	"fleetgate/internal/initseq"
	"fleetgate/internal/routes"
	"fleetgate/internal/view"
)

// retryAfterSeconds is advertised while loading and when remounts are throttled.
const retryAfterSeconds = "1"

var sectionTitles = map[routes.Section]string{
	routes.SectionOverview:     "Overview",
	routes.SectionIntegrations: "Integrations",
	routes.SectionPolicies:     "Agent policies",
	routes.SectionDataStreams:  "Data streams",
	routes.SectionFleet:        "Agents",
}

type statusResponse struct {
	Mounted             bool             `json:"mounted"`
	Phase               initseq.Phase    `json:"phase"`
	Snapshot            initseq.Snapshot `json:"snapshot"`
	InitializationError string           `json:"initializationError,omitempty"`
	View                view.View        `json:"view"`
	License             string           `json:"license,omitempty"`
	Title               string           `json:"title,omitempty"`
	Breadcrumbs         []app.Breadcrumb `json:"breadcrumbs,omitempty"`
}

type appResponse struct {
	View  view.View    `json:"view"`
	Route routes.Match `json:"route"`
	Title string       `json:"title,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleStatus(c *gin.Context) {
	shell := s.console.Shell()
	snap := shell.Snapshot()

	resp := statusResponse{
		Mounted:     shell.Mounted(),
		Phase:       snap.State.Phase,
		Snapshot:    snap,
		View:        shell.View(),
		Title:       shell.Chrome().Title(),
		Breadcrumbs: shell.Chrome().Breadcrumbs(),
	}
	if snap.InitializationError != nil {
		resp.InitializationError = snap.InitializationError.Error()
	}
	if lic := s.console.Services().License.Current(); lic != nil {
		resp.License = lic.Type
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleRemount(c *gin.Context) {
	if !s.remount.Allow() {
		c.Header("Retry-After", retryAfterSeconds)
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many remount requests"})
		return
	}

	attempt, err := s.console.Remount()
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	if c.Query("wait") != "true" {
		c.JSON(http.StatusAccepted, gin.H{"attemptId": attempt.ID})
		return
	}

	select {
	case <-attempt.Done:
	case <-c.Request.Context().Done():
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"attemptId": attempt.ID,
		"view":      s.console.Shell().View(),
	})
}

func (s *Server) handleDismiss(c *gin.Context) {
	shell := s.console.Shell()
	if !shell.DismissInitializationError() {
		c.JSON(http.StatusConflict, gin.H{"error": "no initialization error to dismiss"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": shell.View()})
}

// gate writes the blocking view and reports true when the console cannot
// be used yet.
func gate(c *gin.Context, v view.View) bool {
	if !v.Blocking {
		return false
	}
	status := http.StatusForbidden
	if v.Kind == view.KindLoading {
		status = http.StatusServiceUnavailable
		c.Header("Retry-After", retryAfterSeconds)
	}
	c.JSON(status, gin.H{"view": v})
	return true
}

func (s *Server) handleApp(c *gin.Context) {
	shell := s.console.Shell()
	v := shell.View()
	if gate(c, v) {
		return
	}

	path := c.Param("path")
	if path == "" {
		path = "/"
	}
	m := routes.Resolve(path, s.console.RouteOptions())
	if m.Redirect != "" {
		c.Redirect(http.StatusTemporaryRedirect, "/app"+m.Redirect)
		return
	}

	chrome := shell.Chrome()
	if title, ok := sectionTitles[m.Section]; ok && m.Section != routes.SectionOverview {
		chrome.SetTitle(title, app.BaseTitle)
		chrome.SetBreadcrumbs(app.Breadcrumb{Text: app.BaseTitle, Href: "/"}, app.Breadcrumb{Text: title})
	} else {
		chrome.SetTitle(app.BaseTitle)
		chrome.SetBreadcrumbs(app.Breadcrumb{Text: app.BaseTitle, Href: "/"})
	}

	c.JSON(http.StatusOK, appResponse{View: v, Route: m, Title: chrome.Title()})
}

func (s *Server) handleAgent(c *gin.Context) {
	shell := s.console.Shell()
	if gate(c, shell.View()) {
		return
	}
	if !s.console.RouteOptions().AgentsEnabled {
		c.JSON(http.StatusNotFound, gin.H{"error": "fleet agents are disabled"})
		return
	}

	agentID := strings.TrimSpace(c.Param("agentId"))
	page := s.console.Services().Agents.Load(c.Request.Context(), agentID, c.Query("tab"))

	status := http.StatusOK
	switch page.Body.Kind {
	case agentdetails.BodyNotFound:
		status = http.StatusNotFound
	case agentdetails.BodyError:
		status = http.StatusBadGateway
	case agentdetails.BodyContent:
		agentsHref, _ := routes.Href(routes.PageFleetAgentList, nil)
		chrome := shell.Chrome()
		chrome.SetTitle(page.Header.Title, sectionTitles[routes.SectionFleet], app.BaseTitle)
		chrome.SetBreadcrumbs(
			app.Breadcrumb{Text: app.BaseTitle, Href: "/"},
			app.Breadcrumb{Text: sectionTitles[routes.SectionFleet], Href: agentsHref},
			app.Breadcrumb{Text: page.Breadcrumb},
		)
	}
	c.JSON(status, page)
}
