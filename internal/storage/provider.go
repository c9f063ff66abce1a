// Package storage retrieves the manifest and image assets of a gallery site.
package storage

import "context"

// Provider reads site files addressed by app-root-relative, slash-separated
// paths (e.g. "data/csv/information.csv").
type Provider interface {
	// Read returns the raw bytes at path. A missing file yields an error
	// wrapping apperr.ErrNotFound.
	Read(ctx context.Context, path string) ([]byte, error)
}
