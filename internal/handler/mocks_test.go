package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/cafe-recs/backend/internal/domain"
	"github.com/pkordes/cafe-recs/backend/internal/handler"
	"github.com/pkordes/cafe-recs/backend/internal/service"
)

// mockCafeServicer is a test double for handler.CafeServicer.
// Set only the method fields your test needs.
type mockCafeServicer struct {
	create      func(ctx context.Context, cafe domain.Cafe) (domain.Cafe, error)
	getByID     func(ctx context.Context, id uuid.UUID) (domain.Cafe, error)
	listPaged   func(ctx context.Context, zip string, p domain.PaginationParams) ([]domain.Cafe, int64, error)
	delete      func(ctx context.Context, id uuid.UUID) error
	addReviews  func(ctx context.Context, cafeID uuid.UUID, texts []string) (domain.Cafe, error)
	listReviews func(ctx context.Context, cafeID uuid.UUID) ([]domain.Review, error)
}

func (m *mockCafeServicer) Create(ctx context.Context, c domain.Cafe) (domain.Cafe, error) {
	return m.create(ctx, c)
}
func (m *mockCafeServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Cafe, error) {
	return m.getByID(ctx, id)
}
func (m *mockCafeServicer) ListPaged(ctx context.Context, zip string, p domain.PaginationParams) ([]domain.Cafe, int64, error) {
	return m.listPaged(ctx, zip, p)
}
func (m *mockCafeServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockCafeServicer) AddReviews(ctx context.Context, cafeID uuid.UUID, texts []string) (domain.Cafe, error) {
	return m.addReviews(ctx, cafeID, texts)
}
func (m *mockCafeServicer) ListReviews(ctx context.Context, cafeID uuid.UUID) ([]domain.Review, error) {
	return m.listReviews(ctx, cafeID)
}

// compile-time check: mockCafeServicer must satisfy handler.CafeServicer.
var _ handler.CafeServicer = (*mockCafeServicer)(nil)

type mockRecommender struct {
	recommend func(ctx context.Context, q service.RecommendQuery) ([]domain.Recommendation, error)
}

func (m *mockRecommender) Recommend(ctx context.Context, q service.RecommendQuery) ([]domain.Recommendation, error) {
	return m.recommend(ctx, q)
}

var _ handler.Recommender = (*mockRecommender)(nil)

type mockTextScorer struct {
	score func(ctx context.Context, texts []string) (service.ScoreResult, error)
}

func (m *mockTextScorer) Score(ctx context.Context, texts []string) (service.ScoreResult, error) {
	return m.score(ctx, texts)
}

var _ handler.TextScorer = (*mockTextScorer)(nil)

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(context.Context) error { return m.err }

var _ handler.Pinger = (*mockPinger)(nil)

// ---- helpers ---------------------------------------------------------------

// do serves req through the Server's real chi router and returns the recorder.
// This mirrors how main.go wires it in production.
func do(srv *handler.Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

// errorBody mirrors the JSON error envelope.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func cafeFixture() domain.Cafe {
	scores := domain.NewVibeScores()
	scores[domain.VibeQuiet] = 3
	return domain.Cafe{
		ID:        uuid.New(),
		Name:      "Spyhouse",
		ZipCode:   "55401",
		Stars:     4,
		Coords:    &domain.Coordinates{Lat: 44.98, Lon: -93.27},
		Vibe:      domain.VibeQuiet,
		Scores:    scores,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}
