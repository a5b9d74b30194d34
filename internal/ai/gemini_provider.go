package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/alwell-health/alwell/internal/config"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-1.5-flash-latest"

type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a genai client; extra options override the endpoint or transport.
func NewGeminiProvider(ctx context.Context, cfg *config.Config, extra ...option.ClientOption) (*GeminiProvider, error) {
	opts := append([]option.ClientOption{option.WithAPIKey(cfg.GeminiAPIKey)}, extra...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := cfg.GeminiModel
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiProvider{client: client, model: model}, nil
}

func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

func (p *GeminiProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	model := p.client.GenerativeModel(p.model)

	var system []genai.Part
	var parts []genai.Part
	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleSystem:
			system = append(system, genai.Text(msg.Content))
		default:
			parts = append(parts, genai.Text(msg.Content))
		}
	}
	if len(system) > 0 {
		model.SystemInstruction = &genai.Content{Parts: system}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: no user content to send", ErrMalformedResponse)
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", err
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: gemini returned no candidates", ErrMalformedResponse)
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		} else {
			log.Printf("WARN ai: gemini response part was not text: %T", part)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("%w: gemini returned no text", ErrMalformedResponse)
	}

	return text.String(), nil
}
