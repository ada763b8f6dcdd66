package service

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/pkordes/cafe-recs/backend/internal/domain"
	"github.com/pkordes/cafe-recs/backend/internal/repo"
)

const (
	// DefaultRecommendLimit is used when a query does not set Limit.
	DefaultRecommendLimit = 10
	// MaxRecommendLimit caps Limit.
	MaxRecommendLimit = 50
	// DefaultLocateTimeout bounds the ZIP geocode of a single Recommend call.
	DefaultLocateTimeout = 3 * time.Second
)

// Geocoder resolves a postal code to coordinates.
// *geocode.Nominatim, *geocode.Cached and *geocode.Observed satisfy it.
type Geocoder interface {
	Lookup(ctx context.Context, postalCode string) (domain.Coordinates, error)
}

// RecommendQuery is a request for cafes near a ZIP code matching some vibes.
// Vibes holds raw names; an empty list matches every vibe.
type RecommendQuery struct {
	ZipCode string
	Vibes   []string
	Limit   *int
}

// RecommendService ranks the cafes of a ZIP code against requested vibes.
type RecommendService struct {
	cafes         repo.CafeRepo
	geocoder      Geocoder
	log           *slog.Logger
	locateTimeout time.Duration
}

// RecommendOption configures a RecommendService.
type RecommendOption func(*RecommendService)

// WithLocateTimeout bounds how long Recommend waits for the geocoder before
// ranking without distances. Non-positive values keep the default.
func WithLocateTimeout(d time.Duration) RecommendOption {
	return func(s *RecommendService) {
		if d > 0 {
			s.locateTimeout = d
		}
	}
}

// NewRecommendService constructs a RecommendService. geocoder may be nil, in
// which case recommendations never carry distances.
func NewRecommendService(cafes repo.CafeRepo, geocoder Geocoder, log *slog.Logger, opts ...RecommendOption) *RecommendService {
	if log == nil {
		log = slog.Default()
	}
	s := &RecommendService{cafes: cafes, geocoder: geocoder, log: log, locateTimeout: DefaultLocateTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Recommend returns the best matching cafes in the query's ZIP code.
// Cafes are ordered by match score, then stars, then distance from the ZIP
// centre (unknown distances last), then name.
// Returns domain.ErrValidation for a malformed ZIP code, an unknown vibe or a
// non-positive limit. A geocoding failure is logged, not returned.
func (s *RecommendService) Recommend(ctx context.Context, q RecommendQuery) ([]domain.Recommendation, error) {
	zip, err := domain.NormalizeZip(q.ZipCode)
	if err != nil {
		return nil, err
	}
	vibes, err := domain.ParseVibes(q.Vibes)
	if err != nil {
		return nil, err
	}
	limit := DefaultRecommendLimit
	if q.Limit != nil {
		if *q.Limit < 1 {
			return nil, fmt.Errorf("%w: num must be at least 1", domain.ErrValidation)
		}
		limit = min(*q.Limit, MaxRecommendLimit)
	}

	origin := s.locate(ctx, zip)

	cafes, err := s.cafes.ListByZip(ctx, zip)
	if err != nil {
		return nil, fmt.Errorf("service.RecommendService.Recommend: %w", err)
	}

	recs := make([]domain.Recommendation, len(cafes))
	for i, c := range cafes {
		recs[i] = domain.Recommendation{Cafe: c, MatchScore: c.Scores.Sum(vibes)}
		if origin != nil && c.Coords != nil {
			d := origin.DistanceKm(*c.Coords)
			recs[i].DistanceKm = &d
		}
	}
	slices.SortStableFunc(recs, compareRecommendations)

	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// locate geocodes zip, returning nil when no geocoder is configured or the
// lookup fails or outlasts locateTimeout.
func (s *RecommendService) locate(ctx context.Context, zip string) *domain.Coordinates {
	if s.geocoder == nil {
		return nil
	}
	lctx, cancel := context.WithTimeout(ctx, s.locateTimeout)
	defer cancel()
	c, err := s.geocoder.Lookup(lctx, zip)
	if err != nil {
		s.log.WarnContext(ctx, "geocode failed; ranking without distance",
			slog.String("zip_code", zip),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return &c
}

func compareRecommendations(a, b domain.Recommendation) int {
	if c := cmp.Compare(b.MatchScore, a.MatchScore); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Cafe.Stars, a.Cafe.Stars); c != 0 {
		return c
	}
	switch {
	case a.DistanceKm != nil && b.DistanceKm == nil:
		return -1
	case a.DistanceKm == nil && b.DistanceKm != nil:
		return 1
	case a.DistanceKm != nil && b.DistanceKm != nil:
		if c := cmp.Compare(*a.DistanceKm, *b.DistanceKm); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.Cafe.Name, b.Cafe.Name)
}
