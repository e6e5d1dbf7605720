// Package ratelimit limits the rate of write operations against the GitHub
// API.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter allows perSecond operations per second with bursts of up to
// burst operations.
type Limiter struct {
	limiter *rate.Limiter
}

// New returns a Limiter.
// If perSecond is <= 0, the rate is unlimited.
// If burst is < 1, a burst of 1 is used.
func New(perSecond float64, burst int) *Limiter {
	if perSecond <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}

	if burst < 1 {
		burst = 1
	}

	return &Limiter{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Wait blocks until the next operation is allowed or ctx is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
