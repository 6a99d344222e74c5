package app

import (
	"strings"
	"sync"
)

// BaseTitle is the document title segment every page ends with.
const BaseTitle = "Fleet"

// Breadcrumb is one entry of the navigation trail.
type Breadcrumb struct {
	Text string `json:"text"`
	Href string `json:"href,omitempty"`
}

// Chrome holds the document title and breadcrumb trail of the console.
// It is reset on teardown so nothing from an unmounted console leaks into
// whatever is shown next.
type Chrome struct {
	mu          sync.RWMutex
	title       []string
	breadcrumbs []Breadcrumb
}

// NewChrome returns an empty chrome.
func NewChrome() *Chrome {
	return &Chrome{}
}

// SetTitle sets the title segments, most specific first.
func (c *Chrome) SetTitle(segments ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.title = append([]string(nil), segments...)
}

// Title returns the joined document title, or "" when unset.
func (c *Chrome) Title() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.title) == 0 {
		return ""
	}
	return strings.Join(c.title, " - ")
}

// SetBreadcrumbs replaces the breadcrumb trail.
func (c *Chrome) SetBreadcrumbs(crumbs ...Breadcrumb) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.breadcrumbs = append([]Breadcrumb(nil), crumbs...)
}

// Breadcrumbs returns a copy of the trail.
func (c *Chrome) Breadcrumbs() []Breadcrumb {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Breadcrumb(nil), c.breadcrumbs...)
}

// Reset clears title and breadcrumbs.
func (c *Chrome) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.title = nil
	c.breadcrumbs = nil
}

// baseBreadcrumb is the root of every trail.
func baseBreadcrumb() Breadcrumb {
	return Breadcrumb{Text: BaseTitle, Href: "/"}
}
