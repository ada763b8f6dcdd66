package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/pkordes/cafe-recs/backend/internal/domain"
	"github.com/pkordes/cafe-recs/backend/spec"
)

// ServiceName is reported by GET /.
const ServiceName = "cafe-recs"

const healthPingTimeout = 2 * time.Second

type healthResponse struct {
	Status string `json:"status"`
}

type rootResponse struct {
	Name    string        `json:"name"`
	Version string        `json:"version"`
	Vibes   []domain.Vibe `json:"vibes"`
}

// GetRoot handles GET /.
func (s *Server) GetRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rootResponse{
		Name:    ServiceName,
		Version: s.version,
		Vibes:   domain.AllVibes,
	})
}

// GetHealth handles GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the server and its database
// are reachable, and 503 with {"status":"unavailable"} when the ping fails.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()
		if err := s.db.Ping(ctx); err != nil {
			s.log.WarnContext(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// GetOpenAPI handles GET /openapi.yaml by serving the embedded document.
func (s *Server) GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(spec.OpenAPI)
}
