package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alwell-health/alwell/internal/config"
)

const appOrigin = "http://localhost:3000"

func withCORS(credentials bool) func(*config.Config) {
	return func(cfg *config.Config) {
		cfg.CORSAllowedOrigins = []string{appOrigin}
		cfg.CORSAllowCredentials = credentials
	}
}

func TestCORS_PreflightOnboardingAllowsPut(t *testing.T) {
	srv := newTestServer(t, withCORS(false))

	req := httptest.NewRequest(http.MethodOptions, "/v1/profile", nil)
	req.Header.Set("Origin", appOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != appOrigin {
		t.Errorf("expected Allow-Origin=%s, got %q", appOrigin, got)
	}
	methods := rr.Header().Get("Access-Control-Allow-Methods")
	for _, m := range []string{"GET", "POST", "PUT", "DELETE"} {
		if !strings.Contains(methods, m) {
			t.Errorf("Allow-Methods %q is missing %s", methods, m)
		}
	}
}

func TestCORS_PreflightStreamAllowsLastEventID(t *testing.T) {
	srv := newTestServer(t, withCORS(false))

	req := httptest.NewRequest(http.MethodOptions, "/v1/snapshot/stream", nil)
	req.Header.Set("Origin", appOrigin)
	req.Header.Set("Access-Control-Request-Headers", "last-event-id")
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Headers"); !strings.Contains(got, "Last-Event-ID") {
		t.Errorf("expected Last-Event-ID in Allow-Headers, got %q", got)
	}
}

func TestCORS_DisallowedOriginGetsNoHeaders(t *testing.T) {
	srv := newTestServer(t, withCORS(true))

	req := httptest.NewRequest(http.MethodOptions, "/v1/reports", nil)
	req.Header.Set("Origin", "http://evil.example")
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no Allow-Origin for disallowed origin, got %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Credentials"); got != "" {
		t.Errorf("expected no Allow-Credentials for disallowed origin, got %q", got)
	}
}

func TestCORS_SnapshotStreamFromAllowedOrigin(t *testing.T) {
	srv := newTestServer(t, withCORS(true))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/v1/snapshot/stream", nil).WithContext(ctx)
	req.Header.Set("Origin", appOrigin)
	req.Header.Set("Last-Event-ID", "3")
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("expected event stream, got %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != appOrigin {
		t.Errorf("expected Allow-Origin=%s, got %q", appOrigin, got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("expected Allow-Credentials=true, got %q", got)
	}
	if got := rr.Header().Get("Vary"); got != "Origin" {
		t.Errorf("expected Vary=Origin, got %q", got)
	}
	if !strings.HasPrefix(rr.Body.String(), "event: snapshot\n") {
		t.Errorf("expected initial snapshot event, got %q", rr.Body.String())
	}
}

func TestCORS_NoOriginHeader(t *testing.T) {
	srv := newTestServer(t, withCORS(false))

	req := httptest.NewRequest(http.MethodGet, "/v1/snapshot", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no Allow-Origin without Origin header, got %q", got)
	}
}
