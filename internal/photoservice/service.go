// Package photoservice serves read access to the current catalog and owns
// reloading it. The HTTP API and the MCP server both sit on top of it.
package photoservice

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/starford/shashin/internal/apperr"
	"github.com/starford/shashin/internal/catalog"
	"github.com/starford/shashin/internal/gallery"
	"github.com/starford/shashin/internal/manifest"
	"github.com/starford/shashin/internal/storage"
	"github.com/starford/shashin/internal/viewer"
)

// PhotoList is the result of a search.
type PhotoList struct {
	Query  string             `json:"query"`
	Status string             `json:"status"`
	Total  int                `json:"total"`
	Photos []catalog.Hit      `json:"photos"`
	Tags   []gallery.TagState `json:"tags"`
}

// Info summarizes the loaded catalog.
type Info struct {
	Version  string          `json:"version"`
	Count    int             `json:"count"`
	Encoding string          `json:"encoding,omitempty"`
	Sample   bool            `json:"sample"`
	LoadedAt time.Time       `json:"loaded_at"`
	Skipped  []manifest.Skip `json:"skipped"`
}

// ReloadFunc observes every reload attempt. c is nil when err is not.
type ReloadFunc func(c *catalog.Catalog, err error)

// Options configures a Service.
type Options struct {
	Load         catalog.LoadOptions
	TagSeparator string
	OnReload     ReloadFunc
}

// Service holds the current catalog. Reads are lock-free; reloads are
// serialized.
type Service struct {
	src    storage.Provider
	opts   Options
	store  catalog.Store
	reload sync.Mutex
}

// New creates a service that loads manifests from src. No catalog is loaded
// until Reload is called.
func New(src storage.Provider, opts Options) *Service {
	return &Service{src: src, opts: opts}
}

func (s *Service) logger() *slog.Logger {
	if s.opts.Load.Logger == nil {
		return slog.Default()
	}
	return s.opts.Load.Logger
}

// ManifestPath returns the manifest location relative to the site root.
func (s *Service) ManifestPath() string {
	if s.opts.Load.ManifestPath == "" {
		return catalog.DefaultManifestPath
	}
	return s.opts.Load.ManifestPath
}

// Reload loads the manifest and, on success, installs the new catalog. On
// failure the previous catalog stays in service.
func (s *Service) Reload(ctx context.Context) (*catalog.Catalog, error) {
	s.reload.Lock()
	defer s.reload.Unlock()

	c, err := catalog.Load(ctx, s.src, s.opts.Load)
	if err != nil {
		s.logger().Error("catalog reload failed", slog.String("error", err.Error()))
	} else {
		s.store.Swap(c)
	}
	if s.opts.OnReload != nil {
		s.opts.OnReload(c, err)
	}
	return c, err
}

// Current returns the installed catalog.
func (s *Service) Current() (*catalog.Catalog, error) {
	c := s.store.Current()
	if c == nil {
		return nil, apperr.ErrNotReady
	}
	return c, nil
}

// Ready reports whether a catalog is installed.
func (s *Service) Ready() bool { return s.store.Current() != nil }

// Photos searches the catalog. When tags are given they replace query, the
// same way selecting filter tags rewrites the search box.
func (s *Service) Photos(_ context.Context, query string, tags []string) (*PhotoList, error) {
	c, err := s.Current()
	if err != nil {
		return nil, err
	}
	g := gallery.NewController(c, s.opts.TagSeparator)
	v := g.Search(query)
	for _, t := range tags {
		if t != "" {
			v = g.ToggleTag(t)
		}
	}
	return &PhotoList{
		Query:  v.Query,
		Status: v.Status,
		Total:  len(v.Hits),
		Photos: v.Hits,
		Tags:   v.Tags,
	}, nil
}

// Photo returns the viewer frame for the record at Catalog index i.
func (s *Service) Photo(_ context.Context, i int) (viewer.Frame, error) {
	c, err := s.Current()
	if err != nil {
		return viewer.Frame{}, err
	}
	return viewer.FrameAt(c, i)
}

// Tags returns the distinct filter tags in first-seen order.
func (s *Service) Tags(_ context.Context) ([]string, error) {
	c, err := s.Current()
	if err != nil {
		return nil, err
	}
	tags := catalog.Tags(c.Records(), s.opts.TagSeparator)
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

// Info describes the installed catalog.
func (s *Service) Info(_ context.Context) (*Info, error) {
	c, err := s.Current()
	if err != nil {
		return nil, err
	}
	skipped := c.Skipped
	if skipped == nil {
		skipped = []manifest.Skip{}
	}
	return &Info{
		Version:  c.Version,
		Count:    c.Len(),
		Encoding: c.Encoding,
		Sample:   c.Sample,
		LoadedAt: c.LoadedAt,
		Skipped:  skipped,
	}, nil
}

// ParseIndex validates a Catalog index given as text.
func ParseIndex(raw string) (int, error) {
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("index %q: %w", raw, apperr.ErrInvalidInput)
	}
	return i, nil
}
