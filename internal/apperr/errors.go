// Package apperr defines the sentinel errors shared across the gallery.
package apperr

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	// ErrFetch marks a manifest that could not be retrieved or answered with a
	// non-success status.
	ErrFetch = errors.New("manifest fetch failed")

	// ErrEmptyCatalog marks a manifest that loaded but produced zero usable records.
	ErrEmptyCatalog = errors.New("no valid photo records")
	ErrNoImagePath  = errors.New("no image path column")

	// ErrTooLarge marks a manifest over the fetch size limit.
	ErrTooLarge = errors.New("manifest too large")

	// ErrNotReady is returned before the first catalog has loaded.
	ErrNotReady = errors.New("catalog not loaded")
)
