package handler

import (
	"net/http"

	"github.com/pkordes/cafe-recs/backend/internal/domain"
)

type vibeListResponse struct {
	Vibes []domain.Vibe `json:"vibes"`
}

// ListVibes handles GET /vibes.
func (s *Server) ListVibes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, vibeListResponse{Vibes: domain.AllVibes})
}

// ScoreReviews handles POST /vibes/score.
// Scores the submitted texts without storing them.
func (s *Server) ScoreReviews(w http.ResponseWriter, r *http.Request) {
	var body reviewsRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	result, err := s.scores.Score(r.Context(), body.Reviews)
	if err != nil {
		s.respondError(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusOK, scoreResponse{
		Scores:   result.Scores,
		Dominant: vibePtr(result.Dominant),
	})
}
