package middleware

// WithClock exposes withClock to the external test package.
var WithClock = withClock

// EvictIdle exposes evictIdle to the external test package.
func (l *RateLimiter) EvictIdle() { l.evictIdle() }
