package ai

import (
	"context"
	"errors"
)

// ErrMalformedResponse means the API answered but the body could not be used:
// non-2xx status, undecodable JSON or no choices.
var ErrMalformedResponse = errors.New("malformed ai response")

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type Message struct {
	Role    string
	Content string
}

type CompletionRequest struct {
	Messages []Message
}
