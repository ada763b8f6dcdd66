// Package domain contains the core data types for the Cafe Recs application.
// This package depends only on google/uuid and is imported by every other
// internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Cafe is a single cafe known to the service.
// Coords is nil when the exact location of the cafe is unknown.
type Cafe struct {
	ID        uuid.UUID
	Name      string
	ZipCode   string
	Stars     int
	Coords    *Coordinates
	Vibe      Vibe // dominant vibe; empty until reviews produce a non-zero score
	Scores    VibeScores
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Review is a single free-text review attached to a cafe.
type Review struct {
	ID        uuid.UUID
	CafeID    uuid.UUID
	Text      string
	CreatedAt time.Time
}

// Recommendation is a cafe ranked against a set of requested vibes.
// DistanceKm is nil when either the cafe or the requested ZIP has no coordinates.
type Recommendation struct {
	Cafe       Cafe
	MatchScore int
	DistanceKm *float64
}
