package samples

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alwell-health/alwell/internal/storage/memory"
)

func newTestHandler() *Handler {
	return NewHandler(NewService(memory.New()))
}

func postBatch(t *testing.T, h *Handler, req BatchRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(req)
	r := httptest.NewRequest(http.MethodPost, "/v1/samples/batch", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.HandleBatch(w, r)
	return w
}

func TestHandleBatch(t *testing.T) {
	h := newTestHandler()
	now := time.Now().Truncate(time.Minute)

	w := postBatch(t, h, BatchRequest{Samples: []SampleInput{
		{Type: "heart_rate", Value: 72, Start: now, End: now, Source: "watch"},
		{Type: "sleep_analysis", Value: 1, Start: now.Add(-8 * time.Hour), End: now.Add(-15 * time.Minute)},
	}})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp BatchResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Received != 2 || resp.Inserted != 2 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHandleBatch_Validation(t *testing.T) {
	h := newTestHandler()
	now := time.Now()

	cases := []struct {
		name   string
		sample SampleInput
		code   string
	}{
		{"unknown type", SampleInput{Type: "blood_glucose", Value: 5, Start: now, End: now}, "invalid_type"},
		{"negative value", SampleInput{Type: "step_count", Value: -1, Start: now, End: now}, "invalid_value"},
		{"end before start", SampleInput{Type: "step_count", Value: 10, Start: now, End: now.Add(-time.Minute)}, "invalid_time"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postBatch(t, h, BatchRequest{Samples: []SampleInput{tc.sample}})
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			var resp ErrorResponse
			json.NewDecoder(w.Body).Decode(&resp)
			if resp.Error.Code != tc.code {
				t.Errorf("expected %s, got %s", tc.code, resp.Error.Code)
			}
		})
	}

	w := postBatch(t, h, BatchRequest{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty batch: expected 400, got %d", w.Code)
	}
}

func TestHandleList(t *testing.T) {
	h := newTestHandler()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	postBatch(t, h, BatchRequest{Samples: []SampleInput{
		{Type: "step_count", Value: 100, Start: base, End: base.Add(time.Minute)},
		{Type: "step_count", Value: 200, Start: base.Add(time.Hour), End: base.Add(time.Hour + time.Minute)},
		{Type: "heart_rate", Value: 70, Start: base, End: base},
	}})

	r := httptest.NewRequest(http.MethodGet, "/v1/samples?type=step_count&limit=1", nil)
	w := httptest.NewRecorder()
	h.HandleList(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp ListResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if len(resp.Samples) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(resp.Samples))
	}
	if resp.Samples[0].Value != 200 {
		t.Errorf("expected newest sample first, got %v", resp.Samples[0].Value)
	}

	r = httptest.NewRequest(http.MethodGet, "/v1/samples?limit=abc", nil)
	w = httptest.NewRecorder()
	h.HandleList(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad limit, got %d", w.Code)
	}
}
