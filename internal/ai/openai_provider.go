package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alwell-health/alwell/internal/config"
)

type OpenAIProvider struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// NewOpenAIProvider builds a chat-completions client. AITimeoutSeconds <= 0
// leaves the client without a timeout; only the request context can end a call.
func NewOpenAIProvider(cfg *config.Config) *OpenAIProvider {
	client := &http.Client{}
	if cfg.AITimeoutSeconds > 0 {
		client.Timeout = time.Duration(cfg.AITimeoutSeconds) * time.Second
	}

	endpoint := cfg.OpenAIBaseURL
	if endpoint == "" {
		endpoint = config.DefaultOpenAIBaseURL
	}

	return &OpenAIProvider{
		apiKey:     cfg.OpenAIAPIKey,
		model:      cfg.OpenAIModel,
		endpoint:   endpoint,
		httpClient: client,
	}
}

func (p *OpenAIProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	payload := chatCompletionsRequest{
		Model:    p.model,
		Messages: make([]chatMessage, 0, len(req.Messages)),
	}
	for _, msg := range req.Messages {
		payload.Messages = append(payload.Messages, chatMessage{Role: msg.Role, Content: msg.Content})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: openai request failed with status %d", ErrMalformedResponse, resp.StatusCode)
	}

	var parsed chatCompletionsResponse
	if err := json.Unmarshal(responseBody, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message == nil || parsed.Choices[0].Message.Content == nil {
		return "", fmt.Errorf("%w: response does not contain choices", ErrMalformedResponse)
	}

	return *parsed.Choices[0].Message.Content, nil
}

type chatCompletionsRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionsResponse struct {
	Choices []struct {
		Message *struct {
			Role    string  `json:"role"`
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}
