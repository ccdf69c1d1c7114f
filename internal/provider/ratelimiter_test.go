package provider

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiterAllowsBurstUpToCapacity(t *testing.T) {
	limiter := NewRateLimiter(3, time.Hour)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := limiter.Wait(ctx); err != nil {
			t.Fatalf("call %d should not block: %v", i, err)
		}
	}
}

func TestRateLimiterBlocksWhenExhausted(t *testing.T) {
	limiter := NewRateLimiter(1, time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx); err != nil {
		t.Fatalf("first call should pass: %v", err)
	}
	if err := limiter.Wait(ctx); err == nil {
		t.Fatal("exhausted limiter should block until cancellation")
	}
}

func TestRateLimiterRefills(t *testing.T) {
	limiter := NewRateLimiter(1, 10*time.Millisecond)
	ctx := context.Background()

	if err := limiter.Wait(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- limiter.Wait(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error after refill: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("limiter never refilled")
	}
}
