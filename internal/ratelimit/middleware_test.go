package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aura-assist/aura-backend/internal/config"
)

func TestMiddleware_DisabledPassesThrough(t *testing.T) {
	called := false
	handler := Middleware(NewLimiter(nil), config.RateLimitConfig{Enabled: false})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/process", nil))

	if !called {
		t.Error("disabled limiter must pass the request through")
	}
	if w.Header().Get(headerRateLimitRequests) != "" {
		t.Error("disabled limiter must not set rate limit headers")
	}
}

func TestMiddleware_EnabledFailsOpenWithoutRedis(t *testing.T) {
	called := false
	handler := Middleware(NewLimiter(nil), config.RateLimitConfig{
		Enabled: true,
		Limit:   60,
		Window:  time.Minute,
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/process", nil))

	if !called {
		t.Error("limiter without redis must fail open")
	}
	if w.Header().Get(headerRateLimitRequests) != "60" {
		t.Errorf("expected limit header 60, got %q", w.Header().Get(headerRateLimitRequests))
	}
}
