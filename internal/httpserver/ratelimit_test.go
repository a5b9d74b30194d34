package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alwell-health/alwell/internal/config"
)

func withRateLimit(rps, burst int) func(*config.Config) {
	return func(cfg *config.Config) {
		cfg.RateLimitRPS = rps
		cfg.RateLimitBurst = burst
	}
}

func refreshFrom(h http.Handler, remoteAddr, forwardedFor string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/snapshot/refresh", nil)
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRateLimit_RefreshBurstExceeded(t *testing.T) {
	h := newTestServer(t, withRateLimit(1, 1)).Handler()

	if rr := refreshFrom(h, "1.2.3.4:12345", ""); rr.Code != http.StatusAccepted {
		t.Fatalf("first refresh: expected 202, got %d", rr.Code)
	}

	rr := refreshFrom(h, "1.2.3.4:12345", "")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second refresh: expected 429, got %d", rr.Code)
	}
	if got := rr.Header().Get("Retry-After"); got != "1" {
		t.Errorf("expected Retry-After=1, got %q", got)
	}

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Error.Code != "rate_limited" {
		t.Errorf("expected code=rate_limited, got %q", body.Error.Code)
	}
}

func TestRateLimit_DisabledWhenZero(t *testing.T) {
	h := newTestServer(t, withRateLimit(0, 0)).Handler()

	for i := 0; i < 10; i++ {
		if rr := refreshFrom(h, "1.2.3.4:12345", ""); rr.Code != http.StatusAccepted {
			t.Fatalf("refresh %d: expected 202, got %d", i, rr.Code)
		}
	}
}

func TestRateLimit_ForwardedForFirstHop(t *testing.T) {
	h := newTestServer(t, withRateLimit(1, 1)).Handler()

	// Same client behind two proxies shares one bucket.
	if rr := refreshFrom(h, "10.0.0.1:1000", "9.9.9.9, 10.0.0.1"); rr.Code != http.StatusAccepted {
		t.Fatalf("first: expected 202, got %d", rr.Code)
	}
	if rr := refreshFrom(h, "10.0.0.2:1000", "9.9.9.9"); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("same first hop: expected 429, got %d", rr.Code)
	}

	// A different client through the same proxy is independent.
	if rr := refreshFrom(h, "10.0.0.1:1000", "8.8.8.8, 10.0.0.1"); rr.Code != http.StatusAccepted {
		t.Fatalf("different first hop: expected 202, got %d", rr.Code)
	}
}

func TestExtractIP(t *testing.T) {
	cases := []struct {
		name       string
		remoteAddr string
		xff        string
		want       string
	}{
		{"remote addr", "1.2.3.4:5678", "", "1.2.3.4"},
		{"forwarded chain", "10.0.0.1:80", " 9.9.9.9 , 10.0.0.1", "9.9.9.9"},
		{"no port", "1.2.3.4", "", "1.2.3.4"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/snapshot", nil)
			req.RemoteAddr = tc.remoteAddr
			if tc.xff != "" {
				req.Header.Set("X-Forwarded-For", tc.xff)
			}
			if got := extractIP(req); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
