// Package pacing spaces successive upstream calls by a fixed minimum interval.
package pacing

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer enforces a minimum interval between successive waits. The first
// Wait never blocks; later waits block until the interval has elapsed.
type Pacer struct {
	limiter *rate.Limiter
}

// New builds a Pacer with the given interval. A non-positive interval
// yields a pacer that never blocks.
func New(interval time.Duration) *Pacer {
	if interval <= 0 {
		return &Pacer{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Pacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the interval since the previous call has passed,
// respecting the context.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
