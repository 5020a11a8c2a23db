package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_NilClientFailsOpen(t *testing.T) {
	limiter := NewLimiter(nil)

	result, err := limiter.Check(context.Background(), "client-1", 10, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Allowed {
		t.Error("nil redis client must fail open")
	}
	if result.Remaining != 9 {
		t.Errorf("expected remaining 9, got %d", result.Remaining)
	}
	if result.ResetAt.IsZero() {
		t.Error("expected reset time to be set")
	}
}
