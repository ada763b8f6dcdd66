package geocode

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pkordes/cafe-recs/backend/internal/domain"
)

// DefaultFlightTimeout bounds one shared upstream lookup.
const DefaultFlightTimeout = 30 * time.Second

// Cached memoizes successful lookups of another Geocoder.
// Concurrent lookups of the same postal code share one upstream call, which
// runs detached from any single caller's cancellation. Failures are never
// cached.
type Cached struct {
	next          Geocoder
	group         singleflight.Group
	flightTimeout time.Duration

	mu    sync.RWMutex
	cache map[string]domain.Coordinates
}

// CachedOption configures a Cached.
type CachedOption func(*Cached)

// WithFlightTimeout bounds the shared upstream call. Non-positive values keep
// DefaultFlightTimeout.
func WithFlightTimeout(d time.Duration) CachedOption {
	return func(c *Cached) {
		if d > 0 {
			c.flightTimeout = d
		}
	}
}

// NewCached wraps next with an in-memory cache.
func NewCached(next Geocoder, opts ...CachedOption) *Cached {
	c := &Cached{
		next:          next,
		flightTimeout: DefaultFlightTimeout,
		cache:         make(map[string]domain.Coordinates),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup returns the cached coordinates for postalCode or resolves them via
// the wrapped Geocoder. A caller whose ctx ends first gets ctx.Err(); the
// shared lookup keeps running for the other waiters and still fills the cache.
func (c *Cached) Lookup(ctx context.Context, postalCode string) (domain.Coordinates, error) {
	c.mu.RLock()
	coords, ok := c.cache[postalCode]
	c.mu.RUnlock()
	if ok {
		return coords, nil
	}

	ch := c.group.DoChan(postalCode, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.flightTimeout)
		defer cancel()
		coords, err := c.next.Lookup(fctx, postalCode)
		if err != nil {
			return domain.Coordinates{}, err
		}
		c.mu.Lock()
		c.cache[postalCode] = coords
		c.mu.Unlock()
		return coords, nil
	})
	select {
	case <-ctx.Done():
		return domain.Coordinates{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domain.Coordinates{}, res.Err
		}
		return res.Val.(domain.Coordinates), nil
	}
}

// Len returns the number of cached postal codes.
func (c *Cached) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}
