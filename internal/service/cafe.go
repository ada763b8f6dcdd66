// Package service contains the business logic for the Cafe Recs API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here: services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/cafe-recs/backend/internal/domain"
	"github.com/pkordes/cafe-recs/backend/internal/repo"
)

// MaxReviewsPerRequest caps how many review texts a single call may submit.
const MaxReviewsPerRequest = 100

// VibeScorer scores review texts against every vibe.
// *vibe.Scorer satisfies it.
type VibeScorer interface {
	Score(ctx context.Context, reviews []string) domain.VibeScores
}

// TxRunner runs fn with repos bound to a single transaction.
// *repo.Store satisfies it.
type TxRunner interface {
	InTx(ctx context.Context, fn func(cafes repo.CafeRepo, reviews repo.ReviewRepo) error) error
}

// CafeOption configures a CafeService.
type CafeOption func(*CafeService)

// WithCafeLogger sets the logger used by the service.
func WithCafeLogger(log *slog.Logger) CafeOption {
	return func(s *CafeService) {
		if log != nil {
			s.log = log
		}
	}
}

// WithReviewsIngested registers a callback invoked with the number of reviews
// committed by each successful AddReviews call.
func WithReviewsIngested(fn func(n int)) CafeOption {
	return func(s *CafeService) {
		s.onIngest = fn
	}
}

// CafeService implements business logic for cafes and their reviews.
type CafeService struct {
	cafes    repo.CafeRepo
	reviews  repo.ReviewRepo
	tx       TxRunner
	scorer   VibeScorer
	log      *slog.Logger
	onIngest func(n int)
}

// NewCafeService constructs a CafeService backed by the provided repos.
// tx is used for review ingestion, which must add reviews and rescore the
// cafe atomically.
func NewCafeService(cafes repo.CafeRepo, reviews repo.ReviewRepo, tx TxRunner, scorer VibeScorer, opts ...CafeOption) *CafeService {
	s := &CafeService{
		cafes:   cafes,
		reviews: reviews,
		tx:      tx,
		scorer:  scorer,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates and persists a cafe.
// Cafes with coordinates get an ID derived from them, so creating the same
// location twice updates the existing row instead of duplicating it.
// Returns domain.ErrValidation if input violates business rules.
func (s *CafeService) Create(ctx context.Context, cafe domain.Cafe) (domain.Cafe, error) {
	cafe, err := validateCafe(cafe)
	if err != nil {
		return domain.Cafe{}, err
	}
	if cafe.Coords != nil {
		cafe.ID = domain.CafeID(*cafe.Coords)
	} else {
		cafe.ID = uuid.New()
	}

	result, err := s.cafes.Upsert(ctx, cafe)
	if err != nil {
		return domain.Cafe{}, fmt.Errorf("service.CafeService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single cafe by ID.
// Returns domain.ErrNotFound if no cafe with that ID exists.
func (s *CafeService) GetByID(ctx context.Context, id uuid.UUID) (domain.Cafe, error) {
	result, err := s.cafes.GetByID(ctx, id)
	if err != nil {
		return domain.Cafe{}, fmt.Errorf("service.CafeService.GetByID: %w", err)
	}
	return result, nil
}

// ListPaged returns one page of cafes plus the total count.
// An empty zip lists every cafe; otherwise it must be a valid ZIP code.
func (s *CafeService) ListPaged(ctx context.Context, zip string, p domain.PaginationParams) ([]domain.Cafe, int64, error) {
	if strings.TrimSpace(zip) != "" {
		normalized, err := domain.NormalizeZip(zip)
		if err != nil {
			return nil, 0, err
		}
		zip = normalized
	}

	cafes, total, err := s.cafes.ListPaged(ctx, zip, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.CafeService.ListPaged: %w", err)
	}
	if cafes == nil {
		cafes = []domain.Cafe{}
	}
	return cafes, total, nil
}

// Delete removes a cafe and, by cascade, its reviews and scores.
// Returns domain.ErrNotFound if the cafe does not exist.
func (s *CafeService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.cafes.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.CafeService.Delete: %w", err)
	}
	return nil
}

// AddReviews stores texts as reviews of the cafe, rescores the cafe against
// all of its reviews, and returns the updated cafe. Everything happens in one
// transaction: on failure neither the reviews nor the new scores are kept.
// Returns domain.ErrValidation for empty input and domain.ErrNotFound if the
// cafe does not exist.
func (s *CafeService) AddReviews(ctx context.Context, cafeID uuid.UUID, texts []string) (domain.Cafe, error) {
	cleaned, err := validateReviews(texts)
	if err != nil {
		return domain.Cafe{}, err
	}

	var updated domain.Cafe
	err = s.tx.InTx(ctx, func(cafes repo.CafeRepo, reviews repo.ReviewRepo) error {
		if _, err := cafes.GetByID(ctx, cafeID); err != nil {
			return err
		}
		for _, text := range cleaned {
			if _, err := reviews.Add(ctx, cafeID, text); err != nil {
				return err
			}
		}

		all, err := reviews.ListByCafe(ctx, cafeID)
		if err != nil {
			return err
		}
		bodies := make([]string, len(all))
		for i, r := range all {
			bodies[i] = r.Text
		}

		scores := s.scorer.Score(ctx, bodies)
		if err := cafes.UpdateScores(ctx, cafeID, scores); err != nil {
			return err
		}
		updated, err = cafes.GetByID(ctx, cafeID)
		return err
	})
	if err != nil {
		return domain.Cafe{}, fmt.Errorf("service.CafeService.AddReviews: %w", err)
	}

	s.log.InfoContext(ctx, "reviews ingested",
		slog.String("cafe_id", cafeID.String()),
		slog.Int("count", len(cleaned)),
		slog.String("vibe", string(updated.Vibe)),
	)
	if s.onIngest != nil {
		s.onIngest(len(cleaned))
	}
	return updated, nil
}

// ListReviews returns every review of a cafe, oldest first.
// Returns domain.ErrNotFound if the cafe does not exist.
func (s *CafeService) ListReviews(ctx context.Context, cafeID uuid.UUID) ([]domain.Review, error) {
	if _, err := s.cafes.GetByID(ctx, cafeID); err != nil {
		return nil, fmt.Errorf("service.CafeService.ListReviews: %w", err)
	}
	reviews, err := s.reviews.ListByCafe(ctx, cafeID)
	if err != nil {
		return nil, fmt.Errorf("service.CafeService.ListReviews: %w", err)
	}
	if reviews == nil {
		return []domain.Review{}, nil
	}
	return reviews, nil
}

// validateCafe enforces business rules for a new cafe and returns it with
// its name trimmed and ZIP code normalized.
//   - Name must be non-empty (whitespace-only names are rejected).
//   - ZipCode must be a 5-digit US ZIP, optionally with a +4 suffix.
//   - Stars must be between 0 and 5.
//   - Coords, if set, must be a valid latitude/longitude pair.
func validateCafe(cafe domain.Cafe) (domain.Cafe, error) {
	cafe.Name = strings.TrimSpace(cafe.Name)
	if cafe.Name == "" {
		return domain.Cafe{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	zip, err := domain.NormalizeZip(cafe.ZipCode)
	if err != nil {
		return domain.Cafe{}, err
	}
	cafe.ZipCode = zip
	if cafe.Stars < 0 || cafe.Stars > 5 {
		return domain.Cafe{}, fmt.Errorf("%w: stars must be between 0 and 5", domain.ErrValidation)
	}
	if cafe.Coords != nil {
		if err := cafe.Coords.Validate(); err != nil {
			return domain.Cafe{}, err
		}
	}
	return cafe, nil
}

// validateReviews trims every text and rejects empty batches, blank texts and
// batches larger than MaxReviewsPerRequest.
func validateReviews(texts []string) ([]string, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: at least one review is required", domain.ErrValidation)
	}
	if len(texts) > MaxReviewsPerRequest {
		return nil, fmt.Errorf("%w: at most %d reviews per request", domain.ErrValidation, MaxReviewsPerRequest)
	}
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = strings.TrimSpace(t)
		if out[i] == "" {
			return nil, fmt.Errorf("%w: review %d is empty", domain.ErrValidation, i)
		}
	}
	return out, nil
}
