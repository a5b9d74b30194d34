package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultAPIBase = "http://localhost:8080"
)

var (
	apiBase   string
	client    = &http.Client{Timeout: 30 * time.Second}
	sessionID string
	reportID  string
)

func main() {
	fmt.Println("=== Alwell E2E Smoke Test ===")
	fmt.Println()

	apiBase = getEnv("API_BASE_URL", defaultAPIBase)
	fmt.Printf("API Base: %s\n\n", apiBase)

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Ingest Samples", testIngestSamples},
		{"Authorize Health Data", testAuthorize},
		{"Refresh Snapshot", testRefreshSnapshot},
		{"Get Snapshot", testGetSnapshot},
		{"Onboarding", testOnboarding},
		{"Open Chat Session", testOpenSession},
		{"Send Chat Message", testSendMessage},
		{"Create Report (CSV)", testCreateReport},
		{"Download Report", testDownloadReport},
		{"Delete Report", testDeleteReport},
		{"Close Chat Session", testCloseSession},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("❌ FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("✅ OK\n")
	}

	fmt.Println()
	if failed {
		fmt.Println("❌ SMOKE TEST FAILED")
		os.Exit(1)
	}

	fmt.Println("✅ ALL SMOKE TESTS PASSED")
}

func testHealthz() error {
	_, err := call("GET", "/healthz", nil, http.StatusOK, nil)
	return err
}

func testIngestSamples() error {
	now := time.Now().UTC()
	body := map[string]interface{}{
		"samples": []map[string]interface{}{
			{"type": "heart_rate", "value": 68, "start": now.Add(-5 * time.Minute), "end": now.Add(-5 * time.Minute), "source": "smoke"},
			{"type": "step_count", "value": 1200, "start": now.Add(-time.Hour), "end": now.Add(-50 * time.Minute), "source": "smoke"},
			{"type": "sleep_analysis", "value": 1, "start": now.Add(-9 * time.Hour), "end": now.Add(-90 * time.Minute), "source": "smoke"},
		},
	}

	var resp struct {
		Received int `json:"received"`
	}
	if _, err := call("POST", "/v1/samples/batch", body, http.StatusOK, &resp); err != nil {
		return err
	}
	if resp.Received != 3 {
		return fmt.Errorf("expected 3 received, got %d", resp.Received)
	}
	return nil
}

func testAuthorize() error {
	_, err := call("POST", "/v1/health/authorize", nil, http.StatusOK, nil)
	return err
}

func testRefreshSnapshot() error {
	_, err := call("POST", "/v1/snapshot/refresh", nil, http.StatusAccepted, nil)
	return err
}

func testGetSnapshot() error {
	deadline := time.Now().Add(5 * time.Second)
	for {
		var snap struct {
			HeartRate float64 `json:"heart_rate"`
		}
		if _, err := call("GET", "/v1/snapshot", nil, http.StatusOK, &snap); err != nil {
			return err
		}
		if snap.HeartRate > 0 {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("heart rate not in snapshot after refresh")
		}
		time.Sleep(200 * time.Millisecond)
	}
}

func testOnboarding() error {
	body := map[string]string{
		"first_name": "Smoke",
		"birth_date": "1990-05-17",
		"gender":     "Other",
	}
	_, err := call("PUT", "/v1/profile", body, http.StatusOK, nil)
	return err
}

func testOpenSession() error {
	var resp struct {
		ID string `json:"id"`
	}
	if _, err := call("POST", "/v1/chat/sessions", nil, http.StatusCreated, &resp); err != nil {
		return err
	}
	if resp.ID == "" {
		return fmt.Errorf("no session ID in response")
	}
	sessionID = resp.ID
	return nil
}

func testSendMessage() error {
	var resp struct {
		AssistantMessage *struct {
			Text string `json:"text"`
		} `json:"assistant_message"`
	}
	body := map[string]string{"text": "How did I sleep?"}
	if _, err := call("POST", "/v1/chat/sessions/"+sessionID+"/messages", body, http.StatusOK, &resp); err != nil {
		return err
	}
	if resp.AssistantMessage == nil || resp.AssistantMessage.Text == "" {
		return fmt.Errorf("empty assistant reply")
	}
	return nil
}

func testCreateReport() error {
	var resp struct {
		ID string `json:"id"`
	}
	if _, err := call("POST", "/v1/reports", map[string]string{"format": "csv"}, http.StatusCreated, &resp); err != nil {
		return err
	}
	if resp.ID == "" {
		return fmt.Errorf("no report ID in response")
	}
	reportID = resp.ID
	return nil
}

func testDownloadReport() error {
	if reportID == "" {
		return fmt.Errorf("no report ID to download")
	}

	// Don't follow redirects automatically - we need to check redirect behavior
	originalCheckRedirect := client.CheckRedirect
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	defer func() { client.CheckRedirect = originalCheckRedirect }()

	resp, err := client.Get(fmt.Sprintf("%s/v1/reports/%s/download", apiBase, reportID))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// local mode
	case http.StatusFound:
		location := resp.Header.Get("Location")
		if location == "" {
			return fmt.Errorf("redirect without Location header")
		}
		resp.Body.Close()
		resp, err = client.Get(location)
		if err != nil {
			return fmt.Errorf("failed to follow redirect: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("redirect failed: status=%d", resp.StatusCode)
		}
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}
	if len(data) < 10 {
		return fmt.Errorf("report too small: %d bytes", len(data))
	}
	return nil
}

func testDeleteReport() error {
	_, err := call("DELETE", "/v1/reports/"+reportID, nil, http.StatusNoContent, nil)
	return err
}

func testCloseSession() error {
	_, err := call("DELETE", "/v1/chat/sessions/"+sessionID, nil, http.StatusNoContent, nil)
	return err
}

// call sends a JSON request and decodes the response into out when non-nil.
func call(method, path string, body interface{}, wantStatus int, out interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, apiBase+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return resp, fmt.Errorf("status=%d body=%s", resp.StatusCode, string(data))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp, nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
