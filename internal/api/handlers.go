package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/shashin/internal/photoservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *photoservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *photoservice.Service) *Handler {
	return &Handler{svc: svc}
}

// ListPhotos handles GET /api/photos.
//
//	@Summary		Search photos by title, description and subject
//	@Tags			photos
//	@Produce		json
//	@Param			q	query		string		false	"Search text"
//	@Param			tag	query		[]string	false	"Filter tags; replace q when present"
//	@Success		200	{object}	PhotoListResponse
//	@Failure		503	{object}	errResponse
//	@Router			/photos [get]
func (h *Handler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.svc.Photos(r.Context(), q.Get("q"), q["tag"])
	if err != nil {
		writeError(w, "list photos", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GetPhoto handles GET /api/photos/{index}.
//
//	@Summary		Get the viewer frame for one photo
//	@Tags			photos
//	@Produce		json
//	@Param			index	path		int	true	"Catalog index"
//	@Success		200		{object}	PhotoResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Router			/photos/{index} [get]
func (h *Handler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	i, err := photoservice.ParseIndex(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, "get photo", err)
		return
	}
	f, err := h.svc.Photo(r.Context(), i)
	if err != nil {
		writeError(w, "get photo", err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// ListTags handles GET /api/tags.
//
//	@Summary		List filter tags in first-seen order
//	@Tags			photos
//	@Produce		json
//	@Success		200	{object}	TagsResponse
//	@Router			/tags [get]
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.Tags(r.Context())
	if err != nil {
		writeError(w, "list tags", err)
		return
	}
	writeJSON(w, http.StatusOK, TagsResponse{Tags: tags})
}

// CatalogInfo handles GET /api/catalog.
//
//	@Summary		Describe the loaded catalog
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{object}	CatalogInfoResponse
//	@Router			/catalog [get]
func (h *Handler) CatalogInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.Info(r.Context())
	if err != nil {
		writeError(w, "catalog info", err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// ReloadCatalog handles POST /api/catalog/reload.
//
//	@Summary		Reload the manifest
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{object}	CatalogInfoResponse
//	@Failure		422	{object}	errResponse
//	@Failure		502	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/catalog/reload [post]
func (h *Handler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.Reload(r.Context()); err != nil {
		writeError(w, "reload catalog", err)
		return
	}
	h.CatalogInfo(w, r)
}
