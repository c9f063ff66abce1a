package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/starford/shashin/internal/apperr"
)

// maxManifestBytes bounds a fetched manifest.
const maxManifestBytes = 32 << 20

// HTTP implements Provider with one GET per read against a base URL.
type HTTP struct {
	base     *url.URL
	client   *http.Client
	maxBytes int64
}

// NewHTTP creates a provider resolving paths against base. A nil client gets
// a default with a 30s timeout.
func NewHTTP(base string, client *http.Client) (*HTTP, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("storage: parse base url: %w", err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("storage: base url must be absolute: %s", base)
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTP{base: u, client: client, maxBytes: maxManifestBytes}, nil
}

// URL returns the absolute URL of a site path.
func (h *HTTP) URL(path string) string {
	return h.base.ResolveReference(&url.URL{Path: path}).String()
}

// Read fetches path. 404 yields apperr.ErrNotFound; any other non-2xx status
// is an error carrying the status code. A body over the size limit yields
// apperr.ErrTooLarge rather than a truncated manifest.
func (h *HTTP) Read(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL(path), nil)
	if err != nil {
		return nil, fmt.Errorf("storage: build request: %w", err)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storage: get %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("storage: get %s: status 404: %w", path, apperr.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("storage: get %s: status %d", path, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("storage: read body %s: %w", path, err)
	}
	if int64(len(data)) > h.maxBytes {
		return nil, fmt.Errorf("storage: get %s: over %d bytes: %w", path, h.maxBytes, apperr.ErrTooLarge)
	}
	return data, nil
}
