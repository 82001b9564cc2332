package resilience

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// Backoff grows the pause between attempts exponentially.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
	Factor  float64
	// Jitter spreads each pause by up to this fraction in either direction.
	Jitter float64
}

// Delay returns the pause after the given failed attempt, counting from 1.
func (b Backoff) Delay(attempt int) time.Duration {
	d := float64(b.Initial) * math.Pow(b.Factor, float64(attempt-1))
	if b.Jitter > 0 {
		d *= 1 + b.Jitter*(2*rand.Float64()-1)
	}
	return time.Duration(min(max(d, 0), float64(b.Max)))
}

// Policy says how often and when a failed call is tried again.
type Policy struct {
	// Attempts counts the first call too; below 1 means a single call.
	Attempts int
	Backoff  Backoff
	// Retryable filters errors worth another attempt. Nil retries everything.
	Retryable func(error) bool
	// OnRetry runs before each pause.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// DefaultPolicy is three attempts starting at 200ms, doubling up to 5s.
func DefaultPolicy() Policy {
	return Policy{
		Attempts: 3,
		Backoff:  Backoff{Initial: 200 * time.Millisecond, Max: 5 * time.Second, Factor: 2, Jitter: 0.1},
	}
}

// Retry calls fn until it succeeds or the policy gives up, returning the
// last error. Context cancellation stops it between attempts.
func Retry[T any](ctx context.Context, p Policy, fn func() (T, error)) (T, error) {
	var zero T
	attempts := max(p.Attempts, 1)
	if p.Backoff.Factor <= 0 {
		p.Backoff.Factor = 2
	}
	if p.Backoff.Max <= 0 {
		p.Backoff.Max = 10 * time.Second
	}

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		result, err := fn()
		if err == nil {
			return result, nil
		}
		if attempt >= attempts || (p.Retryable != nil && !p.Retryable(err)) {
			return zero, err
		}

		wait := p.Backoff.Delay(attempt)
		if p.OnRetry != nil {
			p.OnRetry(attempt, err, wait)
		}
		if err := sleep(ctx, wait); err != nil {
			return zero, err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
