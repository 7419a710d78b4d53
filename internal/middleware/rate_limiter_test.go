package middleware

import (
	"testing"
	"time"
)

func TestIPRateLimiterPerKey(t *testing.T) {
	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewIPRateLimiter(1, time.Minute, 2, time.Hour)
	limiter.WithNowFunc(func() time.Time { return now })

	if !limiter.Allow("a") || !limiter.Allow("a") {
		t.Fatal("expected burst of 2 to be allowed")
	}
	if limiter.Allow("a") {
		t.Fatal("expected third request to be limited")
	}
	if !limiter.Allow("b") {
		t.Fatal("expected other key to have its own bucket")
	}

	now = now.Add(time.Minute)
	if !limiter.Allow("a") {
		t.Fatal("expected token to refill after window")
	}
}

func TestIPRateLimiterExpiresIdleKeys(t *testing.T) {
	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewIPRateLimiter(10, time.Second, 1, time.Minute)
	limiter.WithNowFunc(func() time.Time { return now })

	limiter.Allow("a")
	limiter.Allow("")
	if limiter.Len() != 2 {
		t.Fatalf("expected 2 tracked keys, got %d", limiter.Len())
	}

	now = now.Add(2 * time.Minute)
	limiter.Allow("b")
	if limiter.Len() != 1 {
		t.Fatalf("expected idle keys to expire, got %d", limiter.Len())
	}
}
