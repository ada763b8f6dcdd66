// Package repo contains all database access logic for the Cafe Recs API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/cafe-recs/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CafeRepo defines the persistence operations for Cafes and their vibe scores.
type CafeRepo interface {
	// Upsert inserts a cafe, or overwrites name, zip code, stars and
	// coordinates of the cafe with the same ID. Scores and dominant vibe
	// are left untouched on conflict.
	Upsert(ctx context.Context, cafe domain.Cafe) (domain.Cafe, error)

	// GetByID returns a cafe with its scores.
	// Returns domain.ErrNotFound if no cafe with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Cafe, error)

	// ListByZip returns every cafe in a ZIP code, ordered by name.
	ListByZip(ctx context.Context, zip string) ([]domain.Cafe, error)

	// ListPaged returns one page of cafes ordered by name, plus the total count.
	// An empty zip matches every cafe.
	ListPaged(ctx context.Context, zip string, p domain.PaginationParams) ([]domain.Cafe, int64, error)

	// UpdateScores replaces the stored scores of a cafe and sets its dominant vibe.
	// Returns domain.ErrNotFound if the cafe does not exist.
	UpdateScores(ctx context.Context, id uuid.UUID, scores domain.VibeScores) error

	// Delete removes a cafe together with its reviews and scores.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgCafeRepo is the Postgres implementation of CafeRepo.
type pgCafeRepo struct {
	db db
}

// NewCafeRepo constructs a CafeRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewCafeRepo(db db) CafeRepo {
	return &pgCafeRepo{db: db}
}

// cafeColumns selects a cafe row together with its scores aggregated into a
// JSON object keyed by vibe name.
const cafeColumns = `
		c.id, c.name, c.zip_code, c.stars, c.latitude, c.longitude, c.vibe,
		c.created_at, c.updated_at,
		COALESCE((
			SELECT json_object_agg(s.vibe, s.score)
			FROM cafe_vibe_scores s
			WHERE s.cafe_id = c.id
		), '{}'::json) AS scores`

// Upsert inserts or updates a cafe and returns the persisted record.
func (r *pgCafeRepo) Upsert(ctx context.Context, cafe domain.Cafe) (domain.Cafe, error) {
	const q = `
		INSERT INTO cafes (id, name, zip_code, stars, latitude, longitude)
		VALUES (@id, @name, @zip_code, @stars, @latitude, @longitude)
		ON CONFLICT (id) DO UPDATE
		SET name       = EXCLUDED.name,
		    zip_code   = EXCLUDED.zip_code,
		    stars      = EXCLUDED.stars,
		    latitude   = EXCLUDED.latitude,
		    longitude  = EXCLUDED.longitude,
		    updated_at = now()`

	args := pgx.NamedArgs{
		"id":        cafe.ID,
		"name":      cafe.Name,
		"zip_code":  cafe.ZipCode,
		"stars":     cafe.Stars,
		"latitude":  nil,
		"longitude": nil,
	}
	if cafe.Coords != nil {
		args["latitude"] = cafe.Coords.Lat
		args["longitude"] = cafe.Coords.Lon
	}

	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return domain.Cafe{}, fmt.Errorf("repo.CafeRepo.Upsert: %w", err)
	}

	result, err := r.GetByID(ctx, cafe.ID)
	if err != nil {
		return domain.Cafe{}, fmt.Errorf("repo.CafeRepo.Upsert: %w", err)
	}
	return result, nil
}

// GetByID retrieves a cafe by primary key.
func (r *pgCafeRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Cafe, error) {
	q := `SELECT ` + cafeColumns + ` FROM cafes c WHERE c.id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanCafe(row)
	if err != nil {
		return domain.Cafe{}, fmt.Errorf("repo.CafeRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListByZip returns every cafe in zip ordered by name.
func (r *pgCafeRepo) ListByZip(ctx context.Context, zip string) ([]domain.Cafe, error) {
	q := `SELECT ` + cafeColumns + `
		FROM cafes c
		WHERE c.zip_code = @zip
		ORDER BY c.name, c.id`

	cafes, err := r.query(ctx, q, pgx.NamedArgs{"zip": zip})
	if err != nil {
		return nil, fmt.Errorf("repo.CafeRepo.ListByZip: %w", err)
	}
	return cafes, nil
}

// ListPaged returns one page of cafes ordered by name and the total matching count.
func (r *pgCafeRepo) ListPaged(ctx context.Context, zip string, p domain.PaginationParams) ([]domain.Cafe, int64, error) {
	const countQ = `SELECT count(*) FROM cafes WHERE @zip::text = '' OR zip_code = @zip`

	var total int64
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"zip": zip}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.CafeRepo.ListPaged: count: %w", err)
	}

	q := `SELECT ` + cafeColumns + `
		FROM cafes c
		WHERE @zip::text = '' OR c.zip_code = @zip
		ORDER BY c.name, c.id
		LIMIT @limit OFFSET @offset`

	cafes, err := r.query(ctx, q, pgx.NamedArgs{
		"zip":    zip,
		"limit":  p.Limit,
		"offset": p.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.CafeRepo.ListPaged: %w", err)
	}
	return cafes, total, nil
}

// UpdateScores upserts one cafe_vibe_scores row per vibe and stores the
// dominant vibe on the cafe row.
func (r *pgCafeRepo) UpdateScores(ctx context.Context, id uuid.UUID, scores domain.VibeScores) error {
	const updateCafe = `
		UPDATE cafes
		SET vibe = @vibe, updated_at = now()
		WHERE id = @id`

	var dominant *string
	if v := scores.Dominant(); v != "" {
		s := string(v)
		dominant = &s
	}

	tag, err := r.db.Exec(ctx, updateCafe, pgx.NamedArgs{"id": id, "vibe": dominant})
	if err != nil {
		return fmt.Errorf("repo.CafeRepo.UpdateScores: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.CafeRepo.UpdateScores: %w", domain.ErrNotFound)
	}

	const upsertScores = `
		INSERT INTO cafe_vibe_scores (cafe_id, vibe, score)
		SELECT @id::uuid, v, s
		FROM unnest(@vibes::text[], @scores::int[]) AS t(v, s)
		ON CONFLICT (cafe_id, vibe) DO UPDATE SET score = EXCLUDED.score`

	vibes := make([]string, len(domain.AllVibes))
	values := make([]int32, len(domain.AllVibes))
	for i, v := range domain.AllVibes {
		vibes[i] = string(v)
		values[i] = int32(scores[v])
	}

	if _, err := r.db.Exec(ctx, upsertScores, pgx.NamedArgs{"id": id, "vibes": vibes, "scores": values}); err != nil {
		return fmt.Errorf("repo.CafeRepo.UpdateScores: scores: %w", err)
	}
	return nil
}

// Delete removes a cafe by primary key; reviews and scores cascade.
func (r *pgCafeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM cafes WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.CafeRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.CafeRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// query runs q and scans every row into a Cafe. Always returns a non-nil slice.
func (r *pgCafeRepo) query(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.Cafe, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cafes := []domain.Cafe{}
	for rows.Next() {
		c, err := scanCafe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		cafes = append(cafes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return cafes, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanCafe to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanCafe maps a single database row into a domain.Cafe.
// It handles the UUID, nullable coordinates and vibe, and the JSON score map.
func scanCafe(s scanner) (domain.Cafe, error) {
	var (
		c         domain.Cafe
		id        pgtype.UUID
		stars     int16
		lat, lon  pgtype.Float8
		vibe      pgtype.Text
		scoresRaw []byte
	)

	err := s.Scan(&id, &c.Name, &c.ZipCode, &stars, &lat, &lon, &vibe, &c.CreatedAt, &c.UpdatedAt, &scoresRaw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Cafe{}, domain.ErrNotFound
		}
		return domain.Cafe{}, err
	}

	c.ID = uuid.UUID(id.Bytes)
	c.Stars = int(stars)
	if lat.Valid && lon.Valid {
		c.Coords = &domain.Coordinates{Lat: lat.Float64, Lon: lon.Float64}
	}
	if vibe.Valid {
		c.Vibe = domain.Vibe(vibe.String)
	}

	var stored map[string]int
	if err := json.Unmarshal(scoresRaw, &stored); err != nil {
		return domain.Cafe{}, fmt.Errorf("decode scores: %w", err)
	}
	c.Scores = domain.NewVibeScores()
	for name, score := range stored {
		c.Scores[domain.Vibe(name)] = score
	}
	return c, nil
}
