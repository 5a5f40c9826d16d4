package pipeline

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Limiter paces page fetches with a token bucket plus a small random
// delay, so request timing does not form a detectable steady beat.
type Limiter struct {
	rl        *rate.Limiter
	minJitter time.Duration
	maxJitter time.Duration
}

// NewLimiter creates a Limiter allowing rps requests per second with the
// given burst, adding 100-500ms of jitter to each wait.
func NewLimiter(rps float64, burst int) *Limiter {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		rl:        rate.NewLimiter(rate.Limit(rps), burst),
		minJitter: 100 * time.Millisecond,
		maxJitter: 500 * time.Millisecond,
	}
}

// Wait blocks until the limiter grants a slot and the jitter delay has
// elapsed, or ctx is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.rl.Wait(ctx); err != nil {
		return eris.Wrap(err, "pipeline: rate limit")
	}

	jitter := l.minJitter
	if span := l.maxJitter - l.minJitter; span > 0 {
		jitter += time.Duration(rand.Int64N(int64(span)))
	}
	if jitter <= 0 {
		return nil
	}

	timer := time.NewTimer(jitter)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return eris.Wrap(ctx.Err(), "pipeline: rate limit")
	case <-timer.C:
		return nil
	}
}
