package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/cafe-recs/backend/internal/domain"
	"github.com/pkordes/cafe-recs/backend/internal/service"
)

// RecommendCafes handles GET /cafes?zip_code=&vibes=&num=.
// vibes may repeat or hold a comma-separated list; omitted means every vibe.
func (s *Server) RecommendCafes(w http.ResponseWriter, r *http.Request) {
	var (
		q     service.RecommendQuery
		vibes *[]string
	)
	query := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, true, "zip_code", query, &q.ZipCode); err != nil {
		badRequest(w, err.Error())
		return
	}
	// Optional parameters bind through an extra pointer.
	if err := runtime.BindQueryParameter("form", true, false, "vibes", query, &vibes); err != nil {
		badRequest(w, fmt.Sprintf("invalid vibes: %v", err))
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "num", query, &q.Limit); err != nil {
		badRequest(w, fmt.Sprintf("invalid num: %v", err))
		return
	}
	if vibes != nil {
		q.Vibes = *vibes
	}

	recs, err := s.recs.Recommend(r.Context(), q)
	if err != nil {
		s.respondError(w, r, err, "")
		return
	}

	// Already validated by Recommend; parsed again to echo the canonical names.
	canon, _ := domain.ParseVibes(q.Vibes)
	if len(canon) == 0 {
		canon = domain.AllVibes
	}
	zip, _ := domain.NormalizeZip(q.ZipCode)

	data := make([]recommendationResponse, len(recs))
	for i, rec := range recs {
		data[i] = recommendationResponse{
			cafeResponse: cafeToResponse(rec.Cafe),
			MatchScore:   rec.MatchScore,
			DistanceKm:   rec.DistanceKm,
		}
	}
	writeJSON(w, http.StatusOK, recommendResponse{ZipCode: zip, Vibes: canon, Data: data})
}

// ListCafes handles GET /cafes/all.
// Supports ?zip_code=, ?page= and ?limit= (defaults: page=1, limit=20, max=100).
func (s *Server) ListCafes(w http.ResponseWriter, r *http.Request) {
	var (
		zip         *string
		page, limit *int
	)
	query := r.URL.Query()
	for _, p := range []struct {
		name string
		dest any
	}{{"zip_code", &zip}, {"page", &page}, {"limit", &limit}} {
		if err := runtime.BindQueryParameter("form", true, false, p.name, query, p.dest); err != nil {
			badRequest(w, fmt.Sprintf("invalid %s: %v", p.name, err))
			return
		}
	}

	var zipCode string
	if zip != nil {
		zipCode = *zip
	}
	params := domain.NewPaginationParams(page, limit)
	cafes, total, err := s.cafes.ListPaged(r.Context(), zipCode, params)
	if err != nil {
		s.respondError(w, r, err, "")
		return
	}

	data := make([]cafeResponse, len(cafes))
	for i, c := range cafes {
		data[i] = cafeToResponse(c)
	}
	writeJSON(w, http.StatusOK, cafeListResponse{
		Data: data,
		Pagination: pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
		},
	})
}

// CreateCafe handles POST /cafes.
func (s *Server) CreateCafe(w http.ResponseWriter, r *http.Request) {
	var body createCafeRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	cafe, problem := requestToCafe(body)
	if problem != "" {
		validationFailed(w, problem)
		return
	}

	created, err := s.cafes.Create(r.Context(), cafe)
	if err != nil {
		s.respondError(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusCreated, cafeToResponse(created))
}

// GetCafe handles GET /cafes/{id}.
func (s *Server) GetCafe(w http.ResponseWriter, r *http.Request) {
	id, ok := cafeIDParam(w, r)
	if !ok {
		return
	}

	cafe, err := s.cafes.GetByID(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, "cafe not found")
		return
	}

	writeJSON(w, http.StatusOK, cafeToResponse(cafe))
}

// DeleteCafe handles DELETE /cafes/{id}.
func (s *Server) DeleteCafe(w http.ResponseWriter, r *http.Request) {
	id, ok := cafeIDParam(w, r)
	if !ok {
		return
	}

	if err := s.cafes.Delete(r.Context(), id); err != nil {
		s.respondError(w, r, err, "cafe not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// cafeIDParam parses the {id} path parameter, writing a 400 on failure.
func cafeIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid cafe id")
		return uuid.Nil, false
	}
	return id, true
}
