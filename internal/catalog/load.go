package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/starford/shashin/internal/apperr"
	"github.com/starford/shashin/internal/manifest"
	"github.com/starford/shashin/internal/models"
	"github.com/starford/shashin/internal/storage"
	"github.com/starford/shashin/internal/textdecode"
)

// DefaultManifestPath is where the manifest lives relative to the app root.
const DefaultManifestPath = "data/csv/information.csv"

// LoadOptions configures Load.
type LoadOptions struct {
	ManifestPath string
	Manifest     manifest.Options
	// Policy decodes the manifest bytes; nil uses textdecode.DefaultPolicy.
	Policy textdecode.Policy
	// SampleFallback substitutes the built-in sample catalog when the
	// manifest does not exist.
	SampleFallback bool
	Logger         *slog.Logger
}

func (o LoadOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// Load fetches, decodes and parses the manifest into a new Catalog.
//
// A fetch failure wraps apperr.ErrFetch (and apperr.ErrNotFound for a missing
// manifest, in which case the sample catalog is returned when enabled). A
// manifest with no usable rows wraps apperr.ErrEmptyCatalog.
func Load(ctx context.Context, src storage.Provider, opts LoadOptions) (*Catalog, error) {
	logger := opts.logger()
	path := opts.ManifestPath
	if path == "" {
		path = DefaultManifestPath
	}

	raw, err := src.Read(ctx, path)
	if err != nil {
		if opts.SampleFallback && errors.Is(err, apperr.ErrNotFound) {
			logger.Warn("catalog: manifest not found, using sample data",
				slog.String("path", path))
			return Sample(opts.Manifest), nil
		}
		return nil, fmt.Errorf("%w: %w", apperr.ErrFetch, err)
	}

	policy := opts.Policy
	if policy == nil {
		policy = textdecode.DefaultPolicy()
	}
	decoded := policy.Decode(raw)
	logger.Debug("catalog: manifest decoded",
		slog.String("path", path),
		slog.String("encoding", decoded.Encoding),
		slog.Int("bytes", len(raw)))

	res := manifest.Parse(decoded.Text, opts.Manifest)
	for _, s := range res.Skipped {
		logger.Warn("catalog: row skipped",
			slog.Int("line", s.Line),
			slog.String("reason", s.Reason),
			slog.Any("columns", s.Columns))
	}
	if len(res.Records) == 0 {
		return nil, fmt.Errorf("%s: %w", path, apperr.ErrEmptyCatalog)
	}

	c := New(res.Records, Checksum(raw))
	c.Encoding = decoded.Encoding
	c.Skipped = res.Skipped
	logger.Info("catalog: loaded",
		slog.String("path", path),
		slog.Int("records", c.Len()),
		slog.Int("skipped", len(res.Skipped)),
		slog.String("encoding", c.Encoding))
	return c, nil
}

// sampleFiles are the images the gallery ships with.
var sampleFiles = []string{
	"20250824_1.jpeg",
	"20250824_2.jpeg",
	"20250824_3.webp",
	"20250824_4.webp",
	"20250824_5.webp",
	"20250824_6.webp",
	"20250824_7.webp",
	"20250914_1.webp",
	"20250914_2.webp",
	"20250914_3.webp",
	"20250927_1.jpeg",
}

// Sample returns the built-in catalog used when no manifest exists.
func Sample(opts manifest.Options) *Catalog {
	opts = opts.WithDefaults()
	records := make([]models.Record, len(sampleFiles))
	for i, name := range sampleFiles {
		src := manifest.ResolveSrc(name, opts)
		records[i] = models.Record{
			Src:         src,
			Thumbnail:   manifest.ThumbnailFor(src, opts),
			Title:       fmt.Sprintf(opts.TitleFormat, i+1),
			Description: name,
			Subject:     "sample",
		}
	}
	c := New(records, "sample")
	c.Sample = true
	return c
}
