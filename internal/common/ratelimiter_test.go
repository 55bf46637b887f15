package common

import (
	"context"
	"testing"
	"time"
)

func TestRestrictionAnalyse(t *testing.T) {
	restriction := Restriction{Requests: 2, Duration: time.Second}
	now := time.Now()

	if analysis := restriction.Analyse(nil); !analysis.allowed {
		t.Error("empty history should be allowed")
	}
	history := []time.Time{now.Add(-2 * time.Second), now.Add(-500 * time.Millisecond)}
	if analysis := restriction.Analyse(history); !analysis.allowed {
		t.Error("only one request inside the window, should be allowed")
	}
	history = append(history, now.Add(-100*time.Millisecond))
	analysis := restriction.Analyse(history)
	if analysis.allowed {
		t.Fatal("two requests inside the window, should not be allowed")
	}
	if analysis.wait <= 400*time.Millisecond || analysis.wait > 500*time.Millisecond {
		t.Errorf("expected to wait about 500ms, got %s", analysis.wait)
	}
}

func TestRateLimiterNonVital(t *testing.T) {
	rl := NewRateLimiter([]Restriction{{Requests: 2, Duration: time.Minute}})
	ctx := context.Background()

	if !rl.Allowed(ctx, false) || !rl.Allowed(ctx, false) {
		t.Fatal("first two requests should be allowed")
	}
	if rl.Allowed(ctx, false) {
		t.Error("third non vital request should be rejected")
	}
}

func TestRateLimiterVitalWaits(t *testing.T) {
	rl := NewRateLimiter([]Restriction{{Requests: 1, Duration: 50 * time.Millisecond}})
	ctx := context.Background()

	if !rl.Allowed(ctx, true) {
		t.Fatal("first request should be allowed")
	}
	start := time.Now()
	if !rl.Allowed(ctx, true) {
		t.Fatal("vital request should eventually be allowed")
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("vital request should have waited, only took %s", elapsed)
	}
}

func TestRateLimiterVitalGivesUpWithContext(t *testing.T) {
	rl := NewRateLimiter([]Restriction{{Requests: 1, Duration: time.Minute}})
	rl.Allowed(context.Background(), true)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if rl.Allowed(ctx, true) {
		t.Error("request should not be allowed once the context is done")
	}
	if len(rl.pendingVitalRequests) != 0 {
		t.Errorf("pending queue should be empty, got %d", len(rl.pendingVitalRequests))
	}
}

func TestRateLimiterIgnoresInvalidRestrictions(t *testing.T) {
	rl := NewRateLimiter([]Restriction{{Requests: 0, Duration: time.Second}, {Requests: 1, Duration: 0}})
	for i := 0; i < 10; i++ {
		if !rl.Allowed(context.Background(), false) {
			t.Fatal("no valid restriction, every request should be allowed")
		}
	}
}
