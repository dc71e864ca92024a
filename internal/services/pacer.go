package services

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer enforces a fixed inter-call delay in front of an external API so a
// full pipeline run stays under the shared daily quota. Burst is pinned at 1;
// every call after the first waits out the configured interval.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer builds a pacer with the given minimum spacing between calls.
// A non-positive interval disables pacing.
func NewPacer(interval time.Duration) *Pacer {
	if interval <= 0 {
		return &Pacer{}
	}
	return &Pacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next call is allowed or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.limiter == nil {
		return ctx.Err()
	}
	return p.limiter.Wait(ctx)
}
