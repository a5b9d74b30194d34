package ai

import (
	"context"
	"fmt"
	"strings"
)

// MockProvider answers locally without network access.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	lastUser := ""
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == RoleUser {
			lastUser = req.Messages[i].Content
			break
		}
	}

	// user content is "<context>\n\n<question>"
	question := lastUser
	contextLines := 0
	if idx := strings.LastIndex(lastUser, "\n\n"); idx >= 0 {
		question = lastUser[idx+2:]
		contextLines = len(strings.Split(strings.TrimSpace(lastUser[:idx]), "\n"))
	}

	return fmt.Sprintf(
		"Demo mode: you asked %q. I can see %d lines of your profile and health data. This is not medical advice.",
		strings.TrimSpace(question),
		contextLines,
	), nil
}
