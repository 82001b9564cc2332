package resilience

import (
	"context"
	"errors"
	"time"
)

// Bulkhead rejection errors.
var (
	ErrBulkheadFull    = errors.New("bulkhead is full")
	ErrBulkheadTimeout = errors.New("bulkhead wait timeout")
)

// WaitForever makes a bulkhead queue callers until their context ends.
const WaitForever time.Duration = -1

// Bulkhead caps how many calls run at once. The speech pipeline holds one
// with a single slot so only one recording is processed at a time.
type Bulkhead struct {
	name     string
	slots    chan struct{}
	wait     time.Duration
	onReject func(name string, err error)
}

// BulkheadOption tunes a Bulkhead.
type BulkheadOption func(*Bulkhead)

// WithMaxWait sets how long a caller queues for a slot. Zero, the default,
// fails at once; WaitForever waits until the caller's context is done.
func WithMaxWait(d time.Duration) BulkheadOption {
	return func(b *Bulkhead) { b.wait = d }
}

// WithRejectHook registers fn to run whenever a caller gets no slot.
func WithRejectHook(fn func(name string, err error)) BulkheadOption {
	return func(b *Bulkhead) { b.onReject = fn }
}

// NewBulkhead creates a bulkhead with limit slots, at least one.
func NewBulkhead(name string, limit int, opts ...BulkheadOption) *Bulkhead {
	b := &Bulkhead{name: name, slots: make(chan struct{}, max(limit, 1))}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Execute runs fn inside the bulkhead. Without a slot it returns
// ErrBulkheadFull, ErrBulkheadTimeout or the context error.
func (b *Bulkhead) Execute(ctx context.Context, fn func() error) error {
	if err := b.acquire(ctx); err != nil {
		if b.onReject != nil {
			b.onReject(b.name, err)
		}
		return err
	}
	defer func() { <-b.slots }()
	return fn()
}

// ExecuteWithResult is Execute for functions that return a value.
func ExecuteWithResult[T any](b *Bulkhead, ctx context.Context, fn func() (T, error)) (T, error) {
	var result T
	err := b.Execute(ctx, func() (err error) {
		result, err = fn()
		return err
	})
	return result, err
}

func (b *Bulkhead) acquire(ctx context.Context) error {
	select {
	case b.slots <- struct{}{}:
		return nil
	default:
	}
	if b.wait == 0 {
		return ErrBulkheadFull
	}

	// A nil channel never fires, so WaitForever only ends with ctx.
	var expired <-chan time.Time
	if b.wait > 0 {
		t := time.NewTimer(b.wait)
		defer t.Stop()
		expired = t.C
	}

	select {
	case b.slots <- struct{}{}:
		return nil
	case <-expired:
		return ErrBulkheadTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

// InUse returns the number of slots currently held.
func (b *Bulkhead) InUse() int { return len(b.slots) }

// Limit returns the number of slots.
func (b *Bulkhead) Limit() int { return cap(b.slots) }

// IsRejection reports whether err came from the bulkhead refusing a slot
// rather than from the wrapped function.
func IsRejection(err error) bool {
	return errors.Is(err, ErrBulkheadFull) || errors.Is(err, ErrBulkheadTimeout)
}
