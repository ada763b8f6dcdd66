package service_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/pkordes/cafe-recs/backend/internal/domain"
	"github.com/pkordes/cafe-recs/backend/internal/repo"
	"github.com/pkordes/cafe-recs/backend/internal/service"
)

// ---- mock repos ------------------------------------------------------------

// mockCafeRepo is a hand-written test double for repo.CafeRepo.
// Set only the method fields your test needs.
type mockCafeRepo struct {
	upsert       func(ctx context.Context, cafe domain.Cafe) (domain.Cafe, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.Cafe, error)
	listByZip    func(ctx context.Context, zip string) ([]domain.Cafe, error)
	listPaged    func(ctx context.Context, zip string, p domain.PaginationParams) ([]domain.Cafe, int64, error)
	updateScores func(ctx context.Context, id uuid.UUID, scores domain.VibeScores) error
	delete       func(ctx context.Context, id uuid.UUID) error
}

func (m *mockCafeRepo) Upsert(ctx context.Context, cafe domain.Cafe) (domain.Cafe, error) {
	return m.upsert(ctx, cafe)
}
func (m *mockCafeRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Cafe, error) {
	return m.getByID(ctx, id)
}
func (m *mockCafeRepo) ListByZip(ctx context.Context, zip string) ([]domain.Cafe, error) {
	return m.listByZip(ctx, zip)
}
func (m *mockCafeRepo) ListPaged(ctx context.Context, zip string, p domain.PaginationParams) ([]domain.Cafe, int64, error) {
	return m.listPaged(ctx, zip, p)
}
func (m *mockCafeRepo) UpdateScores(ctx context.Context, id uuid.UUID, scores domain.VibeScores) error {
	return m.updateScores(ctx, id, scores)
}
func (m *mockCafeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

// compile-time check: mockCafeRepo must satisfy repo.CafeRepo.
var _ repo.CafeRepo = (*mockCafeRepo)(nil)

// mockReviewRepo is a hand-written test double for repo.ReviewRepo.
type mockReviewRepo struct {
	add        func(ctx context.Context, cafeID uuid.UUID, text string) (domain.Review, error)
	listByCafe func(ctx context.Context, cafeID uuid.UUID) ([]domain.Review, error)
}

func (m *mockReviewRepo) Add(ctx context.Context, cafeID uuid.UUID, text string) (domain.Review, error) {
	return m.add(ctx, cafeID, text)
}
func (m *mockReviewRepo) ListByCafe(ctx context.Context, cafeID uuid.UUID) ([]domain.Review, error) {
	return m.listByCafe(ctx, cafeID)
}

var _ repo.ReviewRepo = (*mockReviewRepo)(nil)

// mockTx hands its own repos to fn, mimicking repo.Store without a database.
type mockTx struct {
	cafes   repo.CafeRepo
	reviews repo.ReviewRepo
	calls   int
}

func (m *mockTx) InTx(_ context.Context, fn func(repo.CafeRepo, repo.ReviewRepo) error) error {
	m.calls++
	return fn(m.cafes, m.reviews)
}

var _ service.TxRunner = (*mockTx)(nil)

// ---- mock collaborators ----------------------------------------------------

// mockScorer records the texts it was asked to score.
type mockScorer struct {
	scores domain.VibeScores
	got    []string
}

func (m *mockScorer) Score(_ context.Context, reviews []string) domain.VibeScores {
	m.got = reviews
	if m.scores == nil {
		return domain.NewVibeScores()
	}
	return m.scores
}

var _ service.VibeScorer = (*mockScorer)(nil)

type mockGeocoder struct {
	lookup func(ctx context.Context, postalCode string) (domain.Coordinates, error)
}

func (m *mockGeocoder) Lookup(ctx context.Context, postalCode string) (domain.Coordinates, error) {
	return m.lookup(ctx, postalCode)
}

var _ service.Geocoder = (*mockGeocoder)(nil)
