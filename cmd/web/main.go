//go:build js && wasm

// Command web is the in-browser gallery. It reads its settings from the
// page's body data attributes, loads the manifest over HTTP and drives the
// DOM from the gallery, render, lazyload and viewer packages.
//
// Build into the server's web directory:
//
//	GOOS=js GOARCH=wasm go build -o web/app.wasm ./cmd/web
//	cp "$(go env GOROOT)/lib/wasm/wasm_exec.js" web/
package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"syscall/js"
	"time"

	"github.com/starford/shashin/internal/catalog"
	"github.com/starford/shashin/internal/manifest"
	"github.com/starford/shashin/internal/render"
	"github.com/starford/shashin/internal/storage"
	"github.com/starford/shashin/internal/textdecode"
)

const fetchTimeout = 30 * time.Second

// pageConfig mirrors the data-* attributes written by render.Page.
type pageConfig struct {
	ManifestPath   string
	Manifest       manifest.Options
	TagSeparator   string
	BatchSize      int
	PreferUTF8     bool
	SampleFallback bool
	EventsPath     string
}

func readPageConfig(body js.Value) pageConfig {
	attr := func(name string) string {
		v := body.Call("getAttribute", "data-"+name)
		if v.IsNull() {
			return ""
		}
		return v.String()
	}

	opts := manifest.DefaultOptions()
	if v := attr("image-root"); v != "" {
		opts.ImageRoot = v
	}
	if v := attr("thumbnail-dir"); v != "" {
		opts.ThumbnailDir = v
	}
	if v := attr("thumbnail-ext"); v != "" {
		opts.ThumbnailExt = v
	}

	cfg := pageConfig{
		ManifestPath:   attr("manifest"),
		Manifest:       opts,
		TagSeparator:   attr("tag-separator"),
		BatchSize:      render.DefaultBatchSize,
		PreferUTF8:     attr("prefer-utf8") == "true",
		SampleFallback: attr("sample-fallback") == "true",
		EventsPath:     attr("events"),
	}
	if n, err := strconv.Atoi(attr("batch-size")); err == nil && n > 0 {
		cfg.BatchSize = n
	}
	if cfg.ManifestPath == "" {
		cfg.ManifestPath = catalog.DefaultManifestPath
	}
	return cfg
}

func (c pageConfig) loadOptions(logger *slog.Logger) catalog.LoadOptions {
	policy := textdecode.DefaultPolicy()
	if c.PreferUTF8 {
		policy = textdecode.PreferValidUTF8(policy)
	}
	return catalog.LoadOptions{
		ManifestPath:   c.ManifestPath,
		Manifest:       c.Manifest,
		Policy:         policy,
		SampleFallback: c.SampleFallback,
		Logger:         logger,
	}
}

func main() {
	// stdout is the browser console under js/wasm.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	doc := js.Global().Get("document")
	cfg := readPageConfig(doc.Get("body"))
	a := newApp(doc, cfg, logger)
	a.bind()

	src, err := storage.NewHTTP(js.Global().Get("location").Get("href").String(), nil)
	if err != nil {
		logger.Error("web: storage", slog.Any("error", err))
		a.showError(err)
		select {}
	}
	a.src = src

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	a.load(ctx)
	cancel()

	if cfg.EventsPath != "" {
		a.subscribe(cfg.EventsPath)
	}

	select {}
}
