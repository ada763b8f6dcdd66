// Package handler implements the HTTP handlers for the Cafe Recs API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, cafe.go, etc.) but share the same Server struct so they
// can access its dependencies.
package handler

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/cafe-recs/backend/internal/domain"
	"github.com/pkordes/cafe-recs/backend/internal/service"
)

// CafeServicer defines the business operations the cafe and review handlers
// depend on. Defining the interface here (in the consumer package) lets
// handler tests inject a mock without touching the database or service layer.
type CafeServicer interface {
	Create(ctx context.Context, cafe domain.Cafe) (domain.Cafe, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Cafe, error)
	ListPaged(ctx context.Context, zip string, p domain.PaginationParams) ([]domain.Cafe, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddReviews(ctx context.Context, cafeID uuid.UUID, texts []string) (domain.Cafe, error)
	ListReviews(ctx context.Context, cafeID uuid.UUID) ([]domain.Review, error)
}

// Recommender ranks cafes against requested vibes.
type Recommender interface {
	Recommend(ctx context.Context, q service.RecommendQuery) ([]domain.Recommendation, error)
}

// TextScorer scores ad-hoc review texts.
type TextScorer interface {
	Score(ctx context.Context, texts []string) (service.ScoreResult, error)
}

// Pinger reports whether the database is reachable. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used to report internal errors.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithVersion sets the version reported by GET /.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// Server holds every dependency the HTTP handlers need.
type Server struct {
	cafes   CafeServicer
	recs    Recommender
	scores  TextScorer
	db      Pinger
	export  Exporter
	log     *slog.Logger
	version string
}

// NewServer constructs the Server with all its dependencies.
func NewServer(cafes CafeServicer, recs Recommender, scores TextScorer, db Pinger, opts ...Option) *Server {
	s := &Server{
		cafes:   cafes,
		recs:    recs,
		scores:  scores,
		db:      db,
		log:     slog.Default(),
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler(db Pinger) *Server {
	return NewServer(nil, nil, nil, db)
}

// Routes registers every API endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.GetRoot)
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Get("/export", s.GetExport)

	r.Get("/vibes", s.ListVibes)
	r.Post("/vibes/score", s.ScoreReviews)

	r.Route("/cafes", func(r chi.Router) {
		r.Get("/", s.RecommendCafes)
		r.Post("/", s.CreateCafe)
		r.Get("/all", s.ListCafes)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetCafe)
			r.Delete("/", s.DeleteCafe)
			r.Get("/reviews", s.ListReviews)
			r.Post("/reviews", s.AddReviews)
		})
	})
}

// Handler returns a chi router serving every API endpoint.
func (s *Server) Handler() chi.Router {
	r := chi.NewRouter()
	s.Routes(r)
	return r
}
