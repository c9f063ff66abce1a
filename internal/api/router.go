package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/shashin/internal/photoservice"
)

// NewRouter creates a chi router with all API routes mounted.
// Read routes are public; authEnabled guards the reload route only.
// sseHandler, if non-nil, is mounted at GET /events.
func NewRouter(svc *photoservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()

	r.Get("/photos", h.ListPhotos)
	r.Get("/photos/{index}", h.GetPhoto)
	r.Get("/tags", h.ListTags)
	r.Get("/catalog", h.CatalogInfo)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(authEnabled, token))
		r.Post("/catalog/reload", h.ReloadCatalog)
	})

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
