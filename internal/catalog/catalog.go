// Package catalog holds the ordered collection of gallery records and the
// pure search and tag functions over it.
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/starford/shashin/internal/manifest"
	"github.com/starford/shashin/internal/models"
)

// DefaultTagSeparator splits a record's subject into filter tags.
const DefaultTagSeparator = "・"

// Catalog is one load of the manifest. It is never modified after creation;
// a reload builds a new Catalog.
type Catalog struct {
	records  []models.Record
	Version  string
	Encoding string
	Skipped  []manifest.Skip
	LoadedAt time.Time
	// Sample is set when the built-in sample data stands in for the manifest.
	Sample bool
}

// New builds a Catalog from records. The slice is copied.
func New(records []models.Record, version string) *Catalog {
	out := make([]models.Record, len(records))
	copy(out, records)
	return &Catalog{records: out, Version: version, LoadedAt: time.Now()}
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.records)
}

// At returns the record at index i.
func (c *Catalog) At(i int) (models.Record, bool) {
	if c == nil || i < 0 || i >= len(c.records) {
		return models.Record{}, false
	}
	return c.records[i], true
}

// Records returns a copy of all records in manifest order.
func (c *Catalog) Records() []models.Record {
	if c == nil {
		return nil
	}
	out := make([]models.Record, len(c.records))
	copy(out, c.records)
	return out
}

// Hit is a record in a visible subset together with its Catalog index.
type Hit struct {
	Index  int           `json:"index"`
	Record models.Record `json:"record"`
}

// All returns every record as a hit.
func (c *Catalog) All() []Hit {
	return Filter(c.Records(), "")
}

// Search returns the hits matching query.
func (c *Catalog) Search(query string) []Hit {
	return Filter(c.Records(), query)
}

// NormalizeQuery lower-cases and trims a query.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Filter returns the records whose title, description or subject contains
// query, case-insensitively, in their original order. An empty query
// matches everything.
func Filter(records []models.Record, query string) []Hit {
	q := NormalizeQuery(query)
	hits := make([]Hit, 0, len(records))
	for i, r := range records {
		if q == "" || Matches(r, q) {
			hits = append(hits, Hit{Index: i, Record: r})
		}
	}
	return hits
}

// Matches reports whether a normalized query is a substring of any display
// field of r.
func Matches(r models.Record, q string) bool {
	return strings.Contains(strings.ToLower(r.Title), q) ||
		strings.Contains(strings.ToLower(r.Description), q) ||
		strings.Contains(strings.ToLower(r.Subject), q)
}

// Tags collects the distinct subject parts of records, in first-seen order.
func Tags(records []models.Record, sep string) []string {
	if sep == "" {
		sep = DefaultTagSeparator
	}
	seen := make(map[string]struct{})
	var out []string
	for _, r := range records {
		if r.Subject == "" {
			continue
		}
		for _, part := range strings.Split(r.Subject, sep) {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if _, dup := seen[part]; dup {
				continue
			}
			seen[part] = struct{}{}
			out = append(out, part)
		}
	}
	return out
}

// Status is the human-readable result line for a search.
func Status(query string, n int) string {
	q := NormalizeQuery(query)
	switch {
	case q == "":
		return ""
	case n == 0:
		return fmt.Sprintf("No photos matched %q.", q)
	case n == 1:
		return "1 photo found."
	default:
		return fmt.Sprintf("%d photos found.", n)
	}
}

// Checksum returns the hex-encoded SHA-256 digest of data.
func Checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
