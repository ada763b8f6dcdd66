// Package vibe scores review text against the closed set of vibes by counting
// how often each vibe's synonyms appear in the reviews.
package vibe

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pkordes/cafe-recs/backend/internal/domain"
)

// SynonymLookup produces the synonym set for a word.
// Implementations may return an empty list for words they do not know.
type SynonymLookup interface {
	Synonyms(ctx context.Context, word string) ([]string, error)
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithLogger sets the logger used to report synonym lookup failures.
func WithLogger(log *slog.Logger) Option {
	return func(s *Scorer) {
		if log != nil {
			s.log = log
		}
	}
}

// WithFoldCase makes matching case-insensitive by lowercasing reviews and
// synonyms before counting.
func WithFoldCase(fold bool) Option {
	return func(s *Scorer) {
		s.foldCase = fold
	}
}

// WithLookupFailureHook registers fn to be called once per vibe whose
// synonym lookup failed during a Score call.
func WithLookupFailureHook(fn func(domain.Vibe)) Option {
	return func(s *Scorer) {
		s.onLookupFailure = fn
	}
}

// Scorer computes VibeScores from review text.
// It holds no mutable state and is safe for concurrent use.
type Scorer struct {
	lookup          SynonymLookup
	log             *slog.Logger
	foldCase        bool
	onLookupFailure func(domain.Vibe)
}

// NewScorer constructs a Scorer backed by lookup.
func NewScorer(lookup SynonymLookup, opts ...Option) *Scorer {
	s := &Scorer{
		lookup: lookup,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score returns a complete VibeScores for reviews.
// Each vibe's score is the number of occurrences of each of its synonyms in
// each review, summed. Occurrences of one synonym are counted without
// overlap, so "aa" occurs once in "aaa". A vibe whose synonyms cannot be
// looked up scores 0; Score itself never fails.
func (s *Scorer) Score(ctx context.Context, reviews []string) domain.VibeScores {
	scores := domain.NewVibeScores()
	if len(reviews) == 0 {
		return scores
	}

	texts := reviews
	if s.foldCase {
		texts = make([]string, len(reviews))
		for i, r := range reviews {
			texts[i] = strings.ToLower(r)
		}
	}

	for _, v := range domain.AllVibes {
		synonyms := s.synonyms(ctx, v)
		for _, text := range texts {
			for _, syn := range synonyms {
				scores[v] += strings.Count(text, syn)
			}
		}
	}
	return scores
}

// synonyms returns the cleaned synonym set for v, or nil if the lookup failed.
func (s *Scorer) synonyms(ctx context.Context, v domain.Vibe) []string {
	raw, err := s.lookup.Synonyms(ctx, v.Word())
	if err != nil {
		s.log.WarnContext(ctx, "synonym lookup failed; scoring vibe as zero",
			"vibe", string(v),
			"error", err,
		)
		if s.onLookupFailure != nil {
			s.onLookupFailure(v)
		}
		return nil
	}
	return normalize(raw, s.foldCase)
}

// normalize turns lemma-style entries ("sense_of_taste") into plain phrases,
// drops empty entries, and removes duplicates while keeping order.
// Empty strings must never reach strings.Count, which would count every rune.
func normalize(raw []string, fold bool) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, w := range raw {
		w = strings.TrimSpace(strings.ReplaceAll(w, "_", " "))
		if fold {
			w = strings.ToLower(w)
		}
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}
