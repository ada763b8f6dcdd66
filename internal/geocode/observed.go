package geocode

import (
	"context"
	"time"

	"github.com/pkordes/cafe-recs/backend/internal/domain"
)

// Observed reports the outcome and duration of every lookup made through it.
type Observed struct {
	next    Geocoder
	observe func(err error, d time.Duration)
}

// NewObserved wraps next so that observe is called after each lookup.
func NewObserved(next Geocoder, observe func(err error, d time.Duration)) *Observed {
	return &Observed{next: next, observe: observe}
}

// Lookup delegates to the wrapped Geocoder.
func (o *Observed) Lookup(ctx context.Context, postalCode string) (domain.Coordinates, error) {
	start := time.Now()
	coords, err := o.next.Lookup(ctx, postalCode)
	o.observe(err, time.Since(start))
	return coords, err
}
