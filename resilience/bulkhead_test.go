package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// holdSlot occupies one slot of b until the returned release func is called.
func holdSlot(t *testing.T, b *Bulkhead) (release func()) {
	t.Helper()
	started := make(chan struct{})
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		_ = b.Execute(context.Background(), func() error {
			close(started)
			<-done
			return nil
		})
	}()
	<-started
	return func() {
		close(done)
		<-finished
	}
}

func TestBulkhead_AllowsRequestsWithinLimit(t *testing.T) {
	b := NewBulkhead("test", 3)

	var calls int32
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := b.Execute(context.Background(), func() error {
				atomic.AddInt32(&calls, 1)
				time.Sleep(10 * time.Millisecond)
				return nil
			})
			if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		}()
	}
	wg.Wait()

	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestBulkhead_RejectsWhenFull(t *testing.T) {
	var rejected string
	b := NewBulkhead("pipeline", 1, WithRejectHook(func(name string, err error) { rejected = name }))
	release := holdSlot(t, b)
	defer release()

	err := b.Execute(context.Background(), func() error { return nil })
	if !errors.Is(err, ErrBulkheadFull) {
		t.Errorf("expected ErrBulkheadFull, got %v", err)
	}
	if !IsRejection(err) {
		t.Error("expected IsRejection to be true")
	}
	if rejected != "pipeline" {
		t.Errorf("expected OnReject for 'pipeline', got %q", rejected)
	}
}

func TestBulkhead_WaitTimeout(t *testing.T) {
	b := NewBulkhead("speech", 1, WithMaxWait(20*time.Millisecond))
	release := holdSlot(t, b)
	defer release()

	err := b.Execute(context.Background(), func() error { return nil })
	if !errors.Is(err, ErrBulkheadTimeout) {
		t.Errorf("expected ErrBulkheadTimeout, got %v", err)
	}
}

func TestBulkhead_WaitForeverQueues(t *testing.T) {
	b := NewBulkhead("speech", 1, WithMaxWait(WaitForever))
	release := holdSlot(t, b)

	result := make(chan error, 1)
	go func() {
		result <- b.Execute(context.Background(), func() error { return nil })
	}()

	select {
	case err := <-result:
		t.Fatalf("expected caller to queue, returned %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	release()
	if err := <-result; err != nil {
		t.Errorf("expected queued call to succeed, got %v", err)
	}
}

func TestBulkhead_WaitForeverHonorsContext(t *testing.T) {
	b := NewBulkhead("speech", 1, WithMaxWait(WaitForever))
	release := holdSlot(t, b)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := b.Execute(ctx, func() error { return nil })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if IsRejection(err) {
		t.Error("context errors are not bulkhead rejections")
	}
}

func TestBulkhead_ExecuteWithResult(t *testing.T) {
	b := NewBulkhead("speech", 1)

	got, err := ExecuteWithResult(b, context.Background(), func() (int, error) {
		return 42, nil
	})
	if err != nil || got != 42 {
		t.Errorf("expected 42, nil; got %d, %v", got, err)
	}
	if b.InUse() != 0 {
		t.Errorf("expected slot released, in use %d", b.InUse())
	}
}

func TestBulkhead_PropagatesFunctionError(t *testing.T) {
	b := NewBulkhead("speech", 1)
	boom := errors.New("boom")

	err := b.Execute(context.Background(), func() error { return boom })
	if !errors.Is(err, boom) {
		t.Errorf("expected function error, got %v", err)
	}
	if IsRejection(err) {
		t.Error("function errors are not bulkhead rejections")
	}
}

func TestNewBulkhead_MinimumOne(t *testing.T) {
	if got := NewBulkhead("speech", 0).Limit(); got != 1 {
		t.Errorf("expected limit 1, got %d", got)
	}
}
