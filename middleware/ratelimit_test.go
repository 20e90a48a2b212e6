// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(3)
	handler := rl.Limit(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	do := func(remote string) int {
		req := httptest.NewRequest("POST", "/voting/create", nil)
		req.RemoteAddr = remote
		w := httptest.NewRecorder()
		handler(w, req)
		return w.Code
	}

	for i := range 3 {
		if code := do("10.0.0.1:1000"); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, code)
		}
	}
	if code := do("10.0.0.1:1001"); code != http.StatusTooManyRequests {
		t.Errorf("expected 429 after burst, got %d", code)
	}
	if code := do("10.0.0.2:1000"); code != http.StatusOK {
		t.Errorf("other clients should not be limited, got %d", code)
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(0)
	for i := range 1000 {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d rejected with limiting disabled", i+1)
		}
	}
}
