package vibe_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/cafe-recs/backend/internal/domain"
	"github.com/pkordes/cafe-recs/backend/internal/thesaurus"
	"github.com/pkordes/cafe-recs/backend/internal/vibe"
)

// mapLookup is a SynonymLookup backed by a fixed map.
// Words listed in fail return an error instead.
type mapLookup struct {
	words map[string][]string
	fail  map[string]bool
}

func (m mapLookup) Synonyms(_ context.Context, word string) ([]string, error) {
	if m.fail[word] {
		return nil, errors.New("lookup offline")
	}
	return m.words[word], nil
}

// compile-time checks
var (
	_ vibe.SynonymLookup = mapLookup{}
	_ vibe.SynonymLookup = (*thesaurus.Thesaurus)(nil)
)

func fixtureLookup() mapLookup {
	return mapLookup{words: map[string][]string{
		"quiet":     {"quiet", "calm", "peaceful"},
		"social":    {"social", "chatty", "lively"},
		"ethnic":    {"ethnic", "authentic"},
		"tasty":     {"tasty", "delicious"},
		"aesthetic": {"aesthetic", "cozy"},
	}}
}

func TestScore_EmptyReviews(t *testing.T) {
	s := vibe.NewScorer(fixtureLookup())

	got := s.Score(context.Background(), nil)

	require.Len(t, got, len(domain.AllVibes))
	for _, v := range domain.AllVibes {
		assert.Zero(t, got[v], "vibe %s", v)
	}
}

func TestScore_NoMatches(t *testing.T) {
	s := vibe.NewScorer(fixtureLookup())

	got := s.Score(context.Background(), []string{"the parking lot was big", "open late"})

	for _, v := range domain.AllVibes {
		assert.Zero(t, got[v], "vibe %s", v)
	}
}

func TestScore_RepeatedSynonym(t *testing.T) {
	s := vibe.NewScorer(fixtureLookup())

	got := s.Score(context.Background(), []string{"quiet quiet"})

	assert.GreaterOrEqual(t, got[domain.VibeQuiet], 2)
}

func TestScore_SumsAcrossReviewsAndSynonyms(t *testing.T) {
	s := vibe.NewScorer(fixtureLookup())

	got := s.Score(context.Background(), []string{
		"calm and peaceful, very quiet",
		"delicious pastries, tasty coffee",
		"cozy",
	})

	assert.Equal(t, 3, got[domain.VibeQuiet])
	assert.Equal(t, 2, got[domain.VibeTasty])
	assert.Equal(t, 1, got[domain.VibeAesthetic])
	assert.Zero(t, got[domain.VibeSocial])
	assert.Zero(t, got[domain.VibeEthnic])
}

func TestScore_CountsSubstrings(t *testing.T) {
	s := vibe.NewScorer(fixtureLookup())

	// "calm" occurs inside "calmly"; substring occurrences count.
	got := s.Score(context.Background(), []string{"we sat calmly"})

	assert.Equal(t, 1, got[domain.VibeQuiet])
}

func TestScore_SameSynonymDoesNotOverlap(t *testing.T) {
	s := vibe.NewScorer(mapLookup{words: map[string][]string{"quiet": {"aa"}}})

	got := s.Score(context.Background(), []string{"aaa", "aaaa"})

	assert.Equal(t, 3, got[domain.VibeQuiet])
}

func TestScore_OrderIndependent(t *testing.T) {
	s := vibe.NewScorer(fixtureLookup())
	reviews := []string{"quiet spot", "chatty baristas, lively crowd", "authentic and delicious"}
	reversed := []string{reviews[2], reviews[1], reviews[0]}

	assert.Equal(t, s.Score(context.Background(), reviews), s.Score(context.Background(), reversed))
}

func TestScore_UnknownVibeWordScoresZero(t *testing.T) {
	lookup := fixtureLookup()
	delete(lookup.words, "ethnic")
	s := vibe.NewScorer(lookup)

	got := s.Score(context.Background(), []string{"ethnic ethnic ethnic authentic"})

	assert.Zero(t, got[domain.VibeEthnic])
}

func TestScore_LookupFailureScoresZeroForThatVibeOnly(t *testing.T) {
	lookup := fixtureLookup()
	lookup.fail = map[string]bool{"quiet": true}

	var buf bytes.Buffer
	var failed []domain.Vibe
	s := vibe.NewScorer(lookup,
		vibe.WithLogger(slog.New(slog.NewJSONHandler(&buf, nil))),
		vibe.WithLookupFailureHook(func(v domain.Vibe) { failed = append(failed, v) }),
	)

	got := s.Score(context.Background(), []string{"quiet and tasty"})

	assert.Zero(t, got[domain.VibeQuiet])
	assert.Equal(t, 1, got[domain.VibeTasty])
	assert.Equal(t, []domain.Vibe{domain.VibeQuiet}, failed)
	assert.Contains(t, buf.String(), "synonym lookup failed")
}

func TestScore_DuplicateAndEmptySynonymsIgnored(t *testing.T) {
	lookup := mapLookup{words: map[string][]string{
		"quiet": {"quiet", "quiet", "", "  "},
	}}
	s := vibe.NewScorer(lookup)

	got := s.Score(context.Background(), []string{"quiet"})

	assert.Equal(t, 1, got[domain.VibeQuiet])
}

func TestScore_LemmaUnderscoresBecomeSpaces(t *testing.T) {
	lookup := mapLookup{words: map[string][]string{
		"tasty": {"sense_of_taste"},
	}}
	s := vibe.NewScorer(lookup)

	got := s.Score(context.Background(), []string{"a real sense of taste"})

	assert.Equal(t, 1, got[domain.VibeTasty])
}

func TestScore_CaseSensitiveByDefault(t *testing.T) {
	s := vibe.NewScorer(fixtureLookup())

	got := s.Score(context.Background(), []string{"Quiet. QUIET."})

	assert.Zero(t, got[domain.VibeQuiet])
}

func TestScore_FoldCase(t *testing.T) {
	s := vibe.NewScorer(fixtureLookup(), vibe.WithFoldCase(true))

	got := s.Score(context.Background(), []string{"Quiet. QUIET."})

	assert.Equal(t, 2, got[domain.VibeQuiet])
}

func TestScore_NonNegativeWithDefaultThesaurus(t *testing.T) {
	th, err := thesaurus.Default()
	require.NoError(t, err)
	s := vibe.NewScorer(th)

	got := s.Score(context.Background(), []string{
		strings.Repeat("peaceful and calm, ", 3),
		"delicious food, very authentic, cozy decor, friendly staff",
	})

	for _, v := range domain.AllVibes {
		assert.GreaterOrEqual(t, got[v], 0)
	}
	assert.GreaterOrEqual(t, got[domain.VibeQuiet], 6)
	assert.Equal(t, domain.VibeQuiet, got.Dominant())
}
