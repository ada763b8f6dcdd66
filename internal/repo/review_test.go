package repo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/cafe-recs/backend/internal/domain"
	"github.com/pkordes/cafe-recs/backend/internal/repo"
	"github.com/pkordes/cafe-recs/backend/testutil"
)

func TestReviewRepo_AddAndList(t *testing.T) {
	cafes, reviews := newTestRepos(t)
	ctx := context.Background()
	c := mustUpsert(t, cafes, cafeFixture("Reviewed", "99906"))

	first, err := reviews.Add(ctx, c.ID, "quiet and calm")
	require.NoError(t, err)
	_, err = reviews.Add(ctx, c.ID, "tasty espresso")
	require.NoError(t, err)

	got, err := reviews.ListByCafe(ctx, c.ID)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, c.ID, got[0].CafeID)
	assert.Equal(t, "quiet and calm", got[0].Text)
}

func TestReviewRepo_Add_UnknownCafe(t *testing.T) {
	_, reviews := newTestRepos(t)

	_, err := reviews.Add(context.Background(), uuid.New(), "lost review")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReviewRepo_ListByCafe_Empty(t *testing.T) {
	_, reviews := newTestRepos(t)

	got, err := reviews.ListByCafe(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// ---- Store -----------------------------------------------------------------

func TestStore_InTx_Commits(t *testing.T) {
	tx := testutil.NewTx(t)
	store := repo.NewStore(tx)
	c := cafeFixture("Committed", "99907")

	err := store.InTx(context.Background(), func(cafes repo.CafeRepo, reviews repo.ReviewRepo) error {
		if _, err := cafes.Upsert(context.Background(), c); err != nil {
			return err
		}
		_, err := reviews.Add(context.Background(), c.ID, "cozy")
		return err
	})
	require.NoError(t, err)

	_, err = repo.NewCafeRepo(tx).GetByID(context.Background(), c.ID)
	assert.NoError(t, err)
}

func TestStore_InTx_RollsBackOnError(t *testing.T) {
	tx := testutil.NewTx(t)
	store := repo.NewStore(tx)
	c := cafeFixture("Rolled Back", "99908")
	boom := errors.New("boom")

	err := store.InTx(context.Background(), func(cafes repo.CafeRepo, _ repo.ReviewRepo) error {
		if _, err := cafes.Upsert(context.Background(), c); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = repo.NewCafeRepo(tx).GetByID(context.Background(), c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
