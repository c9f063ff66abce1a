package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/shashin/internal/apperr"
	"github.com/starford/shashin/internal/render"
	"github.com/starford/shashin/internal/storage"
)

// Image file extensions served from the image root.
var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true,
	".gif": true, ".webp": true, ".avif": true, ".svg": true,
}

// SiteConfig names the files the page shell needs.
type SiteConfig struct {
	Page   render.Page
	WebDir string
}

// SiteHandler serves the page shell, the browser client, the manifest and
// the image assets.
type SiteHandler struct {
	fs       *storage.FS
	page     []byte
	webDir   string
	manifest string
	imgRoot  string
}

// NewSiteHandler renders the page shell once and serves site files from fs.
func NewSiteHandler(fs *storage.FS, r *render.Renderer, cfg SiteConfig) (*SiteHandler, error) {
	html, err := r.Page(cfg.Page)
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return &SiteHandler{
		fs:       fs,
		page:     []byte(html),
		webDir:   cfg.WebDir,
		manifest: strings.TrimPrefix(cfg.Page.ManifestPath, "/"),
		imgRoot:  strings.Trim(cfg.Page.ImageRoot, "/"),
	}, nil
}

// Mount registers the site routes on r.
func (h *SiteHandler) Mount(r chi.Router) {
	r.Get("/", h.Index)
	r.Get("/app.wasm", h.webFile("app.wasm", "application/wasm"))
	r.Get("/wasm_exec.js", h.webFile("wasm_exec.js", "text/javascript; charset=utf-8"))
	r.Get("/"+h.manifest, h.Manifest)
	r.Get("/"+h.imgRoot+"/*", h.Image)
}

// Index handles GET /.
func (h *SiteHandler) Index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.page)
}

// Manifest handles GET /<manifest path>. The bytes are sent as stored; the
// client detects their encoding.
func (h *SiteHandler) Manifest(w http.ResponseWriter, r *http.Request) {
	data, err := h.fs.Read(r.Context(), h.manifest)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.Error("read manifest failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(data)
}

// Image handles GET /<image root>/*.
func (h *SiteHandler) Image(w http.ResponseWriter, r *http.Request) {
	rel := chi.URLParam(r, "*")
	if decoded, err := url.PathUnescape(rel); err == nil {
		rel = decoded
	}
	abs, err := h.imagePath(rel)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, statErr := os.Stat(abs); os.IsNotExist(statErr) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, abs)
}

// imagePath validates a path below the image root and returns the absolute
// file path.
func (h *SiteHandler) imagePath(rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("image path is required")
	}
	for _, seg := range strings.Split(rel, "/") {
		if seg == ".." {
			return "", fmt.Errorf("invalid image path: %s", rel)
		}
	}
	cleaned := path.Clean("/" + rel)
	if !imageExtensions[strings.ToLower(path.Ext(cleaned))] {
		return "", fmt.Errorf("unsupported image type: %s", path.Ext(cleaned))
	}
	return h.fs.Resolve(h.imgRoot + cleaned)
}

func (h *SiteHandler) webFile(name, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.webDir == "" {
			http.NotFound(w, r)
			return
		}
		abs := filepath.Join(h.webDir, name)
		if _, err := os.Stat(abs); err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", contentType)
		http.ServeFile(w, r, abs)
	}
}
