package service

import (
	"context"
	"fmt"

	"github.com/pkordes/cafe-recs/backend/internal/domain"
)

// MaxScoreTexts caps how many texts a single ad-hoc scoring call may submit.
const MaxScoreTexts = 1000

// ScoreResult is the outcome of scoring a batch of texts.
type ScoreResult struct {
	Scores   domain.VibeScores
	Dominant domain.Vibe
}

// ScoreService scores arbitrary review texts without persisting anything.
type ScoreService struct {
	scorer VibeScorer
}

// NewScoreService constructs a ScoreService.
func NewScoreService(scorer VibeScorer) *ScoreService {
	return &ScoreService{scorer: scorer}
}

// Score returns the vibe scores of texts and their dominant vibe.
// An empty batch scores zero everywhere and has no dominant vibe.
// Returns domain.ErrValidation if more than MaxScoreTexts texts are given.
func (s *ScoreService) Score(ctx context.Context, texts []string) (ScoreResult, error) {
	if len(texts) > MaxScoreTexts {
		return ScoreResult{}, fmt.Errorf("%w: at most %d reviews per request", domain.ErrValidation, MaxScoreTexts)
	}
	scores := s.scorer.Score(ctx, texts)
	return ScoreResult{Scores: scores, Dominant: scores.Dominant()}, nil
}
