package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetrySucceedsAfterFailures(t *testing.T) {
	p := RetryPolicy{Attempts: 3, Delay: time.Millisecond, Backoff: 1.5}
	calls := 0
	err := p.Do(context.Background(), nil, "op", func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestRetryReturnsLastError(t *testing.T) {
	p := RetryPolicy{Attempts: 2, Delay: time.Millisecond, Backoff: 1.5}
	calls := 0
	wantErr := errors.New("second failure")
	err := p.Do(context.Background(), nil, "op", func() error {
		calls++
		if calls == 1 {
			return errors.New("first failure")
		}
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestRetryStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := RetryPolicy{Attempts: 5, Delay: 50 * time.Millisecond, Backoff: 2}
	calls := 0
	err := p.Do(ctx, nil, "op", func() error {
		calls++
		cancel()
		return errors.New("fail")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 after cancellation", calls)
	}
}

func TestRetryNoAttemptsWhenAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := RetryPolicy{Attempts: 3, Delay: time.Millisecond, Backoff: 2}
	calls := 0
	err := p.Do(ctx, nil, "op", func() error {
		calls++
		return nil
	})
	if err == nil {
		t.Fatal("expected context error")
	}
	if calls != 0 {
		t.Fatalf("calls = %d, want 0", calls)
	}
}
