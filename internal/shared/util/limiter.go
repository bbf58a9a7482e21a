package util

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter bounds how often an expensive pass may start. Bursts of file
// events beyond the bucket size wait for a refill instead of piling up
// back-to-back recomputes.
type Limiter struct {
	inner *rate.Limiter
}

// NewLimiter allows one pass per interval with the given burst.
func NewLimiter(interval time.Duration, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Limiter{inner: rate.NewLimiter(limit, burst)}
}

// Wait blocks until a pass may start or ctx ends.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.inner.Wait(ctx)
}
