// Package gallery owns the browsing state of one gallery view: the current
// Catalog, the active filter, and the visible subset derived from them.
package gallery

import (
	"slices"
	"strings"

	"github.com/starford/shashin/internal/catalog"
	"github.com/starford/shashin/internal/models"
)

// TagState is a filter tag and whether it is selected.
type TagState struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// View is the outcome of a filter command.
type View struct {
	Query  string        `json:"query"`
	Hits   []catalog.Hit `json:"hits"`
	Status string        `json:"status"`
	Tags   []TagState    `json:"tags"`
}

// Controller is not safe for concurrent use; it belongs to one UI loop.
type Controller struct {
	cat     *catalog.Catalog
	tagSep  string
	tags    []string
	active  []string
	query   string
	visible []catalog.Hit
}

// NewController creates a controller over c. tagSep splits subjects into
// tags; empty uses catalog.DefaultTagSeparator.
func NewController(c *catalog.Catalog, tagSep string) *Controller {
	g := &Controller{tagSep: tagSep}
	g.SetCatalog(c)
	return g
}

// SetCatalog replaces the catalog wholesale and resets the filter state.
func (g *Controller) SetCatalog(c *catalog.Catalog) {
	g.cat = c
	g.tags = catalog.Tags(c.Records(), g.tagSep)
	g.active = nil
	g.query = ""
	g.visible = c.All()
}

// Catalog returns the current catalog.
func (g *Controller) Catalog() *catalog.Catalog { return g.cat }

// Record returns the catalog record at index i.
func (g *Controller) Record(i int) (models.Record, bool) { return g.cat.At(i) }

// Visible returns the current visible subset.
func (g *Controller) Visible() []catalog.Hit { return g.visible }

// Query returns the current query text.
func (g *Controller) Query() string { return g.query }

// Search replaces the query and recomputes the visible subset.
func (g *Controller) Search(query string) View {
	g.query = query
	g.visible = catalog.Filter(g.cat.Records(), query)
	return g.view()
}

// ToggleTag selects or deselects tag, rewrites the query as the
// space-joined selected tags, and searches.
func (g *Controller) ToggleTag(tag string) View {
	if i := slices.Index(g.active, tag); i >= 0 {
		g.active = slices.Delete(g.active, i, i+1)
	} else {
		g.active = append(g.active, tag)
	}
	return g.Search(strings.Join(g.active, " "))
}

// Clear resets the query and all selected tags.
func (g *Controller) Clear() View {
	g.active = nil
	return g.Search("")
}

// ActiveTags returns the selected tags in selection order.
func (g *Controller) ActiveTags() []string {
	return slices.Clone(g.active)
}

// Tags returns every tag with its selection state.
func (g *Controller) Tags() []TagState {
	out := make([]TagState, len(g.tags))
	for i, t := range g.tags {
		out[i] = TagState{Name: t, Active: slices.Contains(g.active, t)}
	}
	return out
}

func (g *Controller) view() View {
	return View{
		Query:  g.query,
		Hits:   g.visible,
		Status: catalog.Status(g.query, len(g.visible)),
		Tags:   g.Tags(),
	}
}
