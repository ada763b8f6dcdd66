package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// beginner is satisfied by *pgxpool.Pool and pgx.Tx (which opens a savepoint).
type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store runs a unit of work against cafes and reviews inside one transaction.
type Store struct {
	db beginner
}

// NewStore constructs a Store. In production pass *pgxpool.Pool; in tests a
// pgx.Tx works too, nesting the unit of work in a savepoint.
func NewStore(db beginner) *Store {
	return &Store{db: db}
}

// InTx begins a transaction, hands fn repos bound to it, and commits if fn
// returns nil. Any error from fn rolls the transaction back.
func (s *Store) InTx(ctx context.Context, fn func(cafes CafeRepo, reviews ReviewRepo) error) error {
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		return fn(NewCafeRepo(tx), NewReviewRepo(tx))
	})
	if err != nil {
		return fmt.Errorf("repo.Store.InTx: %w", err)
	}
	return nil
}
