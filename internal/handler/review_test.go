package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/cafe-recs/backend/internal/domain"
)

func TestListReviews_200(t *testing.T) {
	cafeID := uuid.New()
	svc := &mockCafeServicer{listReviews: func(_ context.Context, id uuid.UUID) ([]domain.Review, error) {
		return []domain.Review{{ID: uuid.New(), CafeID: id, Text: "so quiet", CreatedAt: time.Now()}}, nil
	}}

	rec := do(cafeServer(svc), httptest.NewRequest(http.MethodGet, "/cafes/"+cafeID.String()+"/reviews", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data []struct {
			CafeID uuid.UUID `json:"cafe_id"`
			Text   string    `json:"text"`
		} `json:"data"`
	}
	decode(t, rec, &body)
	require.Len(t, body.Data, 1)
	assert.Equal(t, cafeID, body.Data[0].CafeID)
	assert.Equal(t, "so quiet", body.Data[0].Text)
}

func TestListReviews_404(t *testing.T) {
	svc := &mockCafeServicer{listReviews: func(_ context.Context, _ uuid.UUID) ([]domain.Review, error) {
		return nil, domain.ErrNotFound
	}}

	rec := do(cafeServer(svc), httptest.NewRequest(http.MethodGet, "/cafes/"+uuid.NewString()+"/reviews", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddReviews_201(t *testing.T) {
	fixture := cafeFixture()
	var gotTexts []string
	svc := &mockCafeServicer{addReviews: func(_ context.Context, id uuid.UUID, texts []string) (domain.Cafe, error) {
		gotTexts = texts
		fixture.ID = id
		return fixture, nil
	}}

	req := httptest.NewRequest(http.MethodPost, "/cafes/"+fixture.ID.String()+"/reviews",
		jsonBody(t, map[string]any{"reviews": []string{"quiet", "calm"}}))
	rec := do(cafeServer(svc), req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []string{"quiet", "calm"}, gotTexts)
	assert.Contains(t, rec.Body.String(), `"vibe":"QUIET"`)
}

func TestAddReviews_404(t *testing.T) {
	svc := &mockCafeServicer{addReviews: func(_ context.Context, _ uuid.UUID, _ []string) (domain.Cafe, error) {
		return domain.Cafe{}, domain.ErrNotFound
	}}

	rec := do(cafeServer(svc), httptest.NewRequest(http.MethodPost, "/cafes/"+uuid.NewString()+"/reviews",
		strings.NewReader(`{"reviews":["ok"]}`)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddReviews_400_InvalidID(t *testing.T) {
	rec := do(cafeServer(&mockCafeServicer{}), httptest.NewRequest(http.MethodPost, "/cafes/123/reviews",
		strings.NewReader(`{"reviews":["ok"]}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
