package ratelimit

import (
	"testing"
	"time"
)

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		calls    int
		wantPass int
	}{
		{
			name:     "burst allows initial requests",
			rps:      1,
			burst:    3,
			calls:    3,
			wantPass: 3,
		},
		{
			name:     "exceeding burst blocks",
			rps:      1,
			burst:    2,
			calls:    5,
			wantPass: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			krl := New(tt.rps, tt.burst)
			defer krl.Stop()

			passed := 0
			for range tt.calls {
				if krl.Allow("client") {
					passed++
				}
			}

			if passed != tt.wantPass {
				t.Errorf("Allow() passed %d requests, want %d", passed, tt.wantPass)
			}
		})
	}
}

func TestKeyedRateLimiter_IndependentKeys(t *testing.T) {
	krl := New(1, 1)
	defer krl.Stop()

	if !krl.Allow("alpha") {
		t.Error("first request for alpha should pass")
	}
	if krl.Allow("alpha") {
		t.Error("second immediate request for alpha should be blocked")
	}
	// A different key has its own bucket.
	if !krl.Allow("beta") {
		t.Error("first request for beta should pass")
	}
}

func TestKeyedRateLimiter_RefillsOverTime(t *testing.T) {
	krl := New(100, 1)
	defer krl.Stop()

	if !krl.Allow("client") {
		t.Fatal("first request should pass")
	}
	if krl.Allow("client") {
		t.Fatal("burst exhausted, should be blocked")
	}

	time.Sleep(20 * time.Millisecond) // 100 rps refills within 10ms

	if !krl.Allow("client") {
		t.Error("request after refill should pass")
	}
}

func TestKeyedRateLimiter_TracksKeys(t *testing.T) {
	krl := New(1, 1)
	defer krl.Stop()

	krl.Allow("a")
	krl.Allow("b")
	krl.Allow("c")

	if got := krl.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
}
