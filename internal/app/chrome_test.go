package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChrome(t *testing.T) {
	c := NewChrome()
	assert.Empty(t, c.Title())

	c.SetTitle("web-01", "Agents", BaseTitle)
	assert.Equal(t, "web-01 - Agents - Fleet", c.Title())

	crumbs := []Breadcrumb{baseBreadcrumb(), {Text: "web-01"}}
	c.SetBreadcrumbs(crumbs...)
	got := c.Breadcrumbs()
	assert.Equal(t, crumbs, got)

	got[0].Text = "mutated"
	assert.Equal(t, "Fleet", c.Breadcrumbs()[0].Text)

	c.Reset()
	assert.Empty(t, c.Title())
	assert.Empty(t, c.Breadcrumbs())
}
