package handler

import (
	"net/http"
)

// ListReviews handles GET /cafes/{id}/reviews.
func (s *Server) ListReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := cafeIDParam(w, r)
	if !ok {
		return
	}

	reviews, err := s.cafes.ListReviews(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, "cafe not found")
		return
	}

	data := make([]reviewResponse, len(reviews))
	for i, rv := range reviews {
		data[i] = reviewToResponse(rv)
	}
	writeJSON(w, http.StatusOK, reviewListResponse{Data: data})
}

// AddReviews handles POST /cafes/{id}/reviews.
// Responds with the cafe rescored against all of its reviews.
func (s *Server) AddReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := cafeIDParam(w, r)
	if !ok {
		return
	}
	var body reviewsRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	cafe, err := s.cafes.AddReviews(r.Context(), id, body.Reviews)
	if err != nil {
		s.respondError(w, r, err, "cafe not found")
		return
	}

	writeJSON(w, http.StatusCreated, cafeToResponse(cafe))
}
