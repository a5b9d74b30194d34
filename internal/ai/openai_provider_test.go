package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alwell-health/alwell/internal/config"
)

func newTestOpenAI(url string) *OpenAIProvider {
	return NewOpenAIProvider(&config.Config{
		OpenAIAPIKey:  "sk-test",
		OpenAIModel:   "gpt-4",
		OpenAIBaseURL: url,
	})
}

func TestOpenAIProvider_Complete(t *testing.T) {
	var got chatCompletionsRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Drink water."}}]}`))
	}))
	defer srv.Close()

	reply, err := newTestOpenAI(srv.URL).Complete(context.Background(), CompletionRequest{Messages: []Message{
		{Role: RoleSystem, Content: "sys"},
		{Role: RoleUser, Content: "hi"},
	}})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply != "Drink water." {
		t.Errorf("unexpected reply %q", reply)
	}
	if got.Model != "gpt-4" || len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "hi" {
		t.Errorf("unexpected request payload %+v", got)
	}
}

func TestOpenAIProvider_MalformedResponses(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"not json", http.StatusOK, `<html>oops</html>`},
		{"no choices", http.StatusOK, `{"choices":[]}`},
		{"missing content", http.StatusOK, `{"choices":[{"message":{"role":"assistant"}}]}`},
		{"server error", http.StatusInternalServerError, `{"error":{"message":"boom"}}`},
		{"unauthorized", http.StatusUnauthorized, `{"error":{"message":"bad key"}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := newTestOpenAI(srv.URL).Complete(context.Background(), CompletionRequest{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
			if !errors.Is(err, ErrMalformedResponse) {
				t.Errorf("expected ErrMalformedResponse, got %v", err)
			}
		})
	}
}

func TestOpenAIProvider_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestOpenAI(url).Complete(context.Background(), CompletionRequest{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	if err == nil {
		t.Fatal("expected transport error")
	}
	if errors.Is(err, ErrMalformedResponse) {
		t.Errorf("transport error must not be reported as malformed: %v", err)
	}
}

func TestNewOpenAIProvider_Timeout(t *testing.T) {
	p := NewOpenAIProvider(&config.Config{})
	if p.httpClient.Timeout != 0 {
		t.Errorf("expected no timeout by default, got %v", p.httpClient.Timeout)
	}
	if p.endpoint != config.DefaultOpenAIBaseURL {
		t.Errorf("expected default endpoint, got %q", p.endpoint)
	}

	p = NewOpenAIProvider(&config.Config{AITimeoutSeconds: 15})
	if p.httpClient.Timeout.Seconds() != 15 {
		t.Errorf("expected 15s timeout, got %v", p.httpClient.Timeout)
	}
}
