// Package render produces the gallery's HTML fragments. Every fragment is
// rendered through html/template, so record text is always escaped.
package render

import (
	"html/template"
	"strings"

	"github.com/starford/shashin/internal/catalog"
	"github.com/starford/shashin/internal/gallery"
	"github.com/starford/shashin/internal/viewer"
)

// Element ids of the page shell that adapters read from and write into.
const (
	IDSearchInput  = "searchInput"
	IDSearchButton = "searchButton"
	IDClearButton  = "clearButton"
	IDStatus       = "searchStatus"
	IDFilterTags   = "filterTags"
	IDGallery      = "gallery"
	IDModal        = "modal"
	IDModalContent = "modalContent"
	IDModalImage   = "modalImage"
	IDModalCaption = "modalCaption"
	IDPrevButton   = "prevButton"
	IDNextButton   = "nextButton"
	IDCloseButton  = "closeButton"
)

// Class names shared between markup and the browser adapter.
const (
	ClassItem        = "photo-item"
	ClassVisible     = "visible"
	ClassLoaded      = "loaded"
	ClassFallback    = "fallback"
	ClassTag         = "filter-tag"
	ClassActive      = "active"
	ClassModalOpen   = "open"
	ClassScrollLock  = "modal-open"
	ClassPlaceholder = "image-placeholder"
)

// Page configures the page shell.
type Page struct {
	Title          string
	ManifestPath   string
	ImageRoot      string
	ThumbnailDir   string
	ThumbnailExt   string
	TagSeparator   string
	BatchSize      int
	PreferUTF8     bool
	// SampleFallback lets the client show the built-in sample catalog when
	// the manifest is missing.
	SampleFallback bool
	WasmPath       string
	WasmExecPath   string
	// EventsPath is the SSE endpoint announcing reloads; empty disables it.
	EventsPath     string
}

type errorPanel struct {
	Message      string
	ManifestPath string
}

// Renderer executes the gallery templates. It is safe for concurrent use.
type Renderer struct {
	tmpl *template.Template
}

var templates = template.Must(template.New("").Parse(
	pageTemplate + itemsTemplate + panelsTemplate + tagsTemplate + captionTemplate,
))

// New returns a Renderer over the built-in templates.
func New() *Renderer {
	return &Renderer{tmpl: templates}
}

func (r *Renderer) exec(name string, data any) (string, error) {
	var b strings.Builder
	if err := r.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Page renders the full page shell.
func (r *Renderer) Page(p Page) (string, error) {
	if p.BatchSize <= 0 {
		p.BatchSize = DefaultBatchSize
	}
	return r.exec("page", p)
}

// Items renders the grid items of hits[b.Start:b.End]. Item images carry no
// source; the lazy loader assigns it.
func (r *Renderer) Items(hits []catalog.Hit, b Batch) (string, error) {
	b.Start = max(b.Start, 0)
	b.End = min(b.End, len(hits))
	if b.Start >= b.End {
		return "", nil
	}
	return r.exec("items", hits[b.Start:b.End])
}

// Empty renders the panel shown when nothing matches.
func (r *Renderer) Empty() (string, error) {
	return r.exec("empty", nil)
}

// Error renders a load failure in place of the grid, with a hint naming the
// manifest path.
func (r *Renderer) Error(message, manifestPath string) (string, error) {
	return r.exec("error", errorPanel{Message: message, ManifestPath: manifestPath})
}

// Placeholder renders what replaces an image whose every source failed.
func (r *Renderer) Placeholder() (string, error) {
	return r.exec("placeholder", nil)
}

// Tags renders the filter tag buttons.
func (r *Renderer) Tags(tags []gallery.TagState) (string, error) {
	return r.exec("tags", tags)
}

// Caption renders the modal caption for f.
func (r *Renderer) Caption(f viewer.Frame) (string, error) {
	return r.exec("caption", f)
}

const itemsTemplate = `{{define "items"}}{{range .}}<div class="photo-item" data-index="{{.Index}}">` +
	`<img alt="{{.Record.Title}}" data-src="{{.Record.Thumbnail}}" data-full-src="{{.Record.Src}}">` +
	`<div class="photo-overlay">` +
	`<div class="photo-title">{{.Record.Title}}</div>` +
	`{{with .Record.Description}}<div class="photo-description">{{.}}</div>{{end}}` +
	`{{with .Record.Subject}}<div class="photo-subject">{{.}}</div>{{end}}` +
	`</div></div>{{end}}{{end}}`

const panelsTemplate = `{{define "empty"}}<div class="empty-state"><p>No photos found.</p></div>{{end}}` +
	`{{define "error"}}<div class="error-state"><p>{{.Message}}</p>` +
	`<p class="error-hint">Check that the manifest exists at {{.ManifestPath}}.</p></div>{{end}}` +
	`{{define "placeholder"}}<div class="image-placeholder">Image unavailable</div>{{end}}`

const tagsTemplate = `{{define "tags"}}{{range .}}` +
	`<button type="button" class="filter-tag{{if .Active}} active{{end}}" data-tag="{{.Name}}">{{.Name}}</button>` +
	`{{end}}{{end}}`

const captionTemplate = `{{define "caption"}}<strong>{{.Title}}</strong>` +
	`{{with .Description}}<br>{{.}}{{end}}` +
	`{{with .Subject}}<br><em>{{.}}</em>{{end}}` +
	`{{if .LoadFailed}}<br><span class="load-error">The full-size image could not be loaded.</span>{{end}}{{end}}`
