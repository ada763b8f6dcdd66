package handler

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/cafe-recs/backend/internal/domain"
)

// cafeResponse is the JSON shape of a cafe.
type cafeResponse struct {
	ID        openapi_types.UUID `json:"id"`
	Name      string             `json:"name"`
	ZipCode   string             `json:"zip_code"`
	Stars     int                `json:"stars"`
	Latitude  *float64           `json:"latitude,omitempty"`
	Longitude *float64           `json:"longitude,omitempty"`
	Vibe      *domain.Vibe       `json:"vibe"`
	Scores    domain.VibeScores  `json:"scores"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

type recommendationResponse struct {
	cafeResponse
	MatchScore int      `json:"match_score"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

type recommendResponse struct {
	ZipCode string                   `json:"zip_code"`
	Vibes   []domain.Vibe            `json:"vibes"`
	Data    []recommendationResponse `json:"data"`
}

type reviewResponse struct {
	ID        openapi_types.UUID `json:"id"`
	CafeID    openapi_types.UUID `json:"cafe_id"`
	Text      string             `json:"text"`
	CreatedAt time.Time          `json:"created_at"`
}

type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

type cafeListResponse struct {
	Data       []cafeResponse `json:"data"`
	Pagination pagination     `json:"pagination"`
}

type reviewListResponse struct {
	Data []reviewResponse `json:"data"`
}

type createCafeRequest struct {
	Name      string   `json:"name"`
	ZipCode   string   `json:"zip_code"`
	Stars     int      `json:"stars"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// reviewsRequest is the body of both POST /vibes/score and POST /cafes/{id}/reviews.
type reviewsRequest struct {
	Reviews []string `json:"reviews"`
}

type scoreResponse struct {
	Scores   domain.VibeScores `json:"scores"`
	Dominant *domain.Vibe      `json:"dominant"`
}

// --- mapping helpers --------------------------------------------------------

// requestToCafe converts a createCafeRequest into a domain.Cafe.
// Latitude and longitude must be supplied together.
func requestToCafe(body createCafeRequest) (domain.Cafe, string) {
	c := domain.Cafe{
		Name:    body.Name,
		ZipCode: body.ZipCode,
		Stars:   body.Stars,
	}
	switch {
	case body.Latitude != nil && body.Longitude != nil:
		c.Coords = &domain.Coordinates{Lat: *body.Latitude, Lon: *body.Longitude}
	case body.Latitude != nil || body.Longitude != nil:
		return domain.Cafe{}, "latitude and longitude must be set together"
	}
	return c, ""
}

func cafeToResponse(c domain.Cafe) cafeResponse {
	resp := cafeResponse{
		ID:        c.ID,
		Name:      c.Name,
		ZipCode:   c.ZipCode,
		Stars:     c.Stars,
		Vibe:      vibePtr(c.Vibe),
		Scores:    c.Scores,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if resp.Scores == nil {
		resp.Scores = domain.NewVibeScores()
	}
	if c.Coords != nil {
		lat, lon := c.Coords.Lat, c.Coords.Lon
		resp.Latitude, resp.Longitude = &lat, &lon
	}
	return resp
}

func reviewToResponse(r domain.Review) reviewResponse {
	return reviewResponse{
		ID:        r.ID,
		CafeID:    r.CafeID,
		Text:      r.Text,
		CreatedAt: r.CreatedAt,
	}
}

// vibePtr returns nil for the empty vibe so it encodes as JSON null.
func vibePtr(v domain.Vibe) *domain.Vibe {
	if v == "" {
		return nil
	}
	return &v
}
