package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterAllowsWithinBudget(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	now := time.Now()

	for i := 0; i < 3; i++ {
		allowed, _ := rl.Allow("1.2.3.4", now)
		if !allowed {
			t.Fatalf("request %d should be within budget", i+1)
		}
	}

	if allowed, _ := rl.Allow("1.2.3.4", now); allowed {
		t.Error("request over budget should be denied")
	}
}

func TestRateLimiterRemainingCountsDown(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	now := time.Now()

	want := []int{2, 1, 0}
	for i, expected := range want {
		_, remaining := rl.Allow("1.2.3.4", now)
		if remaining != expected {
			t.Errorf("request %d: remaining = %d, want %d", i+1, remaining, expected)
		}
	}
}

func TestRateLimiterIsolatesClients(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	now := time.Now()

	if allowed, _ := rl.Allow("1.1.1.1", now); !allowed {
		t.Fatal("first client's first request should pass")
	}
	if allowed, _ := rl.Allow("2.2.2.2", now); !allowed {
		t.Error("one client's budget must not affect another's")
	}
	if allowed, _ := rl.Allow("1.1.1.1", now); allowed {
		t.Error("first client should be over budget")
	}
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	now := time.Now()

	if allowed, _ := rl.Allow("1.2.3.4", now); !allowed {
		t.Fatal("first request should pass")
	}
	if allowed, _ := rl.Allow("1.2.3.4", now); allowed {
		t.Fatal("second request in the window should be denied")
	}

	later := now.Add(time.Minute + time.Second)
	if allowed, _ := rl.Allow("1.2.3.4", later); !allowed {
		t.Error("budget should reset after the window passes")
	}
}
