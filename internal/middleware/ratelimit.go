package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultVisitorTTL is how long an idle client's limiter is kept.
const DefaultVisitorTTL = 3 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitOption configures a RateLimiter.
type RateLimitOption func(*RateLimiter)

// WithOnLimited registers a callback invoked for every rejected request.
func WithOnLimited(fn func()) RateLimitOption {
	return func(l *RateLimiter) { l.onLimited = fn }
}

// WithVisitorTTL sets how long an idle client's limiter is kept before the
// janitor evicts it.
func WithVisitorTTL(ttl time.Duration) RateLimitOption {
	return func(l *RateLimiter) { l.ttl = ttl }
}

// withClock replaces time.Now; used by tests.
func withClock(now func() time.Time) RateLimitOption {
	return func(l *RateLimiter) { l.now = now }
}

// RateLimiter applies a token bucket per client IP.
type RateLimiter struct {
	rps       rate.Limit
	burst     int
	ttl       time.Duration
	onLimited func()
	now       func() time.Time

	mu       sync.Mutex
	visitors map[string]*visitor
}

// NewRateLimiter returns a limiter allowing rps requests per second per client
// with bursts of up to burst requests. Call Run to start evicting idle clients.
func NewRateLimiter(rps float64, burst int, opts ...RateLimitOption) *RateLimiter {
	l := &RateLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		ttl:      DefaultVisitorTTL,
		now:      time.Now,
		visitors: make(map[string]*visitor),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Handler rejects requests beyond the client's budget with 429 Too Many Requests.
//
// Wire it after chimiddleware.RealIP so proxied clients are told apart.
func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.limiter(clientIP(r)).Allow() {
			if l.onLimited != nil {
				l.onLimited()
			}
			w.Header().Set("Retry-After", strconv.Itoa(l.retryAfterSeconds()))
			writeError(w, http.StatusTooManyRequests, "too_many_requests", "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Run evicts clients idle for longer than the TTL once a minute until ctx is done.
func (l *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.evictIdle()
		}
	}
}

// Len reports how many clients are currently tracked.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

func (l *RateLimiter) limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = l.now()
	return v.limiter
}

func (l *RateLimiter) evictIdle() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.ttl {
			delete(l.visitors, ip)
		}
	}
}

func (l *RateLimiter) retryAfterSeconds() int {
	if l.rps <= 0 {
		return 60
	}
	return max(1, int(1/float64(l.rps)))
}

// clientIP returns the host part of r.RemoteAddr, or RemoteAddr unchanged when
// it carries no port (as after chimiddleware.RealIP).
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
