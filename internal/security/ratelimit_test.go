package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAllowUpToRate(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("request over the limit should be denied")
	}
}

func TestClientsAreIndependent(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	if !rl.Allow("1.1.1.1") {
		t.Fatal("first client should be allowed")
	}
	if !rl.Allow("2.2.2.2") {
		t.Fatal("second client should be allowed")
	}
	if rl.Allow("1.1.1.1") {
		t.Fatal("first client should now be limited")
	}
}

func TestRefillAfterWindow(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)

	if !rl.Allow("1.2.3.4") {
		t.Fatal("first request should be allowed")
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("second request should be denied")
	}

	time.Sleep(15 * time.Millisecond)
	if !rl.Allow("1.2.3.4") {
		t.Fatal("request after refill should be allowed")
	}
}

func TestMiddlewareRejectsWith429(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/activities", nil)
	req.RemoteAddr = "9.9.9.9:1234"

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, req)
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, req)
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", second.Code)
	}
}

func TestClientIPPrefersForwardedHeader(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	req.Header.Set("X-Forwarded-For", "203.0.113.7")

	if ip := ClientIP(req); ip != "203.0.113.7" {
		t.Fatalf("expected forwarded IP, got %q", ip)
	}
}
