package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/cafe-recs/backend/internal/domain"
)

// pgForeignKeyViolation is the SQLSTATE Postgres raises when a referenced row is missing.
const pgForeignKeyViolation = "23503"

// ReviewRepo defines the persistence operations for cafe reviews.
type ReviewRepo interface {
	// Add stores one review for a cafe.
	// Returns domain.ErrNotFound if the cafe does not exist.
	Add(ctx context.Context, cafeID uuid.UUID, text string) (domain.Review, error)

	// ListByCafe returns all reviews of a cafe, oldest first.
	ListByCafe(ctx context.Context, cafeID uuid.UUID) ([]domain.Review, error)
}

// pgReviewRepo is the Postgres implementation of ReviewRepo.
type pgReviewRepo struct {
	db db
}

// NewReviewRepo constructs a ReviewRepo backed by the provided db connection.
func NewReviewRepo(db db) ReviewRepo {
	return &pgReviewRepo{db: db}
}

// Add inserts a review row and returns the persisted record.
func (r *pgReviewRepo) Add(ctx context.Context, cafeID uuid.UUID, text string) (domain.Review, error) {
	const q = `
		INSERT INTO reviews (cafe_id, body)
		VALUES (@cafe_id, @body)
		RETURNING id, cafe_id, body, created_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"cafe_id": cafeID, "body": text})
	result, err := scanReview(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return domain.Review{}, fmt.Errorf("repo.ReviewRepo.Add: %w", domain.ErrNotFound)
		}
		return domain.Review{}, fmt.Errorf("repo.ReviewRepo.Add: %w", err)
	}
	return result, nil
}

// ListByCafe returns every review for cafeID in insertion order.
func (r *pgReviewRepo) ListByCafe(ctx context.Context, cafeID uuid.UUID) ([]domain.Review, error) {
	const q = `
		SELECT id, cafe_id, body, created_at
		FROM reviews
		WHERE cafe_id = @cafe_id
		ORDER BY seq`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"cafe_id": cafeID})
	if err != nil {
		return nil, fmt.Errorf("repo.ReviewRepo.ListByCafe: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ReviewRepo.ListByCafe: scan: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ReviewRepo.ListByCafe: rows: %w", err)
	}
	return reviews, nil
}

// scanReview maps a single database row into a domain.Review.
func scanReview(s scanner) (domain.Review, error) {
	var (
		rv     domain.Review
		id     pgtype.UUID
		cafeID pgtype.UUID
	)
	if err := s.Scan(&id, &cafeID, &rv.Text, &rv.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Review{}, domain.ErrNotFound
		}
		return domain.Review{}, err
	}
	rv.ID = uuid.UUID(id.Bytes)
	rv.CafeID = uuid.UUID(cafeID.Bytes)
	return rv, nil
}
