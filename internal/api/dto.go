package api

import "github.com/starford/shashin/internal/photoservice"

// PhotoListResponse is the search result (aliased from the domain layer).
type PhotoListResponse = photoservice.PhotoList

// CatalogInfoResponse describes the loaded catalog (aliased from the domain layer).
type CatalogInfoResponse = photoservice.Info

// TagsResponse lists the filter tags.
type TagsResponse struct {
	Tags []string `json:"tags" example:"sea,sky" validate:"required"`
}

// PhotoResponse is the modal frame for one photo.
type PhotoResponse struct {
	Index        int    `json:"index" example:"0" validate:"required"`
	Src          string `json:"src" example:"data/images/a.webp" validate:"required"`
	Alt          string `json:"alt" example:"Beach"`
	Title        string `json:"title" example:"Beach"`
	Description  string `json:"description" example:"Evening at the shore"`
	Subject      string `json:"subject" example:"sea・sky"`
	PrevDisabled bool   `json:"prev_disabled"`
	NextDisabled bool   `json:"next_disabled"`
}
