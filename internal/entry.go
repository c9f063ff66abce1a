// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"

	"github.com/starford/shashin/internal/api"
	"github.com/starford/shashin/internal/catalog"
	"github.com/starford/shashin/internal/mcpserver"
	"github.com/starford/shashin/internal/photoservice"
	"github.com/starford/shashin/internal/render"
	"github.com/starford/shashin/internal/sse"
	"github.com/starford/shashin/internal/storage"
	"github.com/starford/shashin/internal/watch"
)

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("site_root", cfg.Site.Root),
		slog.String("manifest", cfg.Site.Manifest),
		slog.String("web_dir", cfg.Web.Dir),
		slog.String("log_level", cfg.App.LogLevel.String()))

	fs, err := storage.NewFS(cfg.Site.Root)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	// SSE broker.
	broker := sse.NewBroker(cfg.Gallery.ReloadThrottle)
	defer broker.Close()

	svc := newService(cfg, fs, logger, func(c *catalog.Catalog, err error) {
		if err != nil {
			broker.PublishFailure(err)
			return
		}
		broker.PublishReload(sse.Reload{
			Version:  c.Version,
			Count:    c.Len(),
			Encoding: c.Encoding,
			Sample:   c.Sample,
		})
	})

	// Initial load. The server still starts without a catalog; readiness
	// stays false until a reload succeeds.
	if _, err := svc.Reload(ctx); err != nil {
		logger.Warn("initial catalog load failed", slog.String("error", err.Error()))
	}

	r, err := buildRouter(cfg, fs, svc, broker)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Reload the catalog when the manifest changes.
	if cfg.Gallery.Watch {
		manifestPath := filepath.Join(fs.Root(), filepath.FromSlash(cfg.Site.Manifest))
		g.Go(func() error {
			err := watch.Manifest(gCtx, manifestPath, cfg.Gallery.WatchDebounce, logger, func(ctx context.Context) {
				_, _ = svc.Reload(ctx)
			})
			if err != nil {
				logger.Warn("manifest watcher not running", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		// SSE streams end when the broker closes; stop the watcher too.
		broker.Close()
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group context so the watcher stops with the server.
var errShutdown = errors.New("shutdown")

// RunMCP loads the catalog and serves the MCP tools on stdin/stdout.
// Logs go to stderr; stdout belongs to the protocol.
func RunMCP(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	fs, err := storage.NewFS(cfg.Site.Root)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	svc := newService(cfg, fs, logger, nil)
	if _, err := svc.Reload(ctx); err != nil {
		logger.Warn("initial catalog load failed", slog.String("error", err.Error()))
	}

	logger.Info("MCP server starting", slog.String("site_root", fs.Root()))
	return mcpserver.New(svc, app.version).ServeStdio()
}

func newService(cfg *Config, fs *storage.FS, logger *slog.Logger, onReload photoservice.ReloadFunc) *photoservice.Service {
	return photoservice.New(fs, photoservice.Options{
		Load: catalog.LoadOptions{
			ManifestPath:   cfg.Site.Manifest,
			Manifest:       cfg.Site.ManifestOptions(),
			Policy:         cfg.Site.DecodePolicy(),
			SampleFallback: cfg.Gallery.SampleFallback,
			Logger:         logger,
		},
		TagSeparator: cfg.Gallery.TagSeparator,
		OnReload:     onReload,
	})
}

// buildRouter assembles middleware, health checks, the API and the site.
func buildRouter(cfg *Config, fs *storage.FS, svc *photoservice.Service, broker *sse.Broker) (chi.Router, error) {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if len(cfg.CORS.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}))
	}

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !svc.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"loading"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	var events http.Handler
	if broker != nil {
		events = broker
	}
	r.Mount("/api", api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, events))

	site, err := api.NewSiteHandler(fs, render.New(), api.SiteConfig{
		Page: render.Page{
			Title:          cfg.Site.Title,
			ManifestPath:   cfg.Site.Manifest,
			ImageRoot:      cfg.Site.ManifestOptions().ImageRoot,
			ThumbnailDir:   cfg.Site.ManifestOptions().ThumbnailDir,
			ThumbnailExt:   cfg.Site.ManifestOptions().ThumbnailExt,
			TagSeparator:   cfg.Gallery.TagSeparator,
			BatchSize:      cfg.Gallery.BatchSize,
			PreferUTF8:     cfg.Site.PreferUTF8,
			SampleFallback: cfg.Gallery.SampleFallback,
			WasmPath:       "/app.wasm",
			WasmExecPath:   "/wasm_exec.js",
			EventsPath:     "/api/events",
		},
		WebDir: cfg.Web.Dir,
	})
	if err != nil {
		return nil, err
	}
	site.Mount(r)

	return r, nil
}
