package assistant

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/alwell-health/alwell/internal/ai"
	"github.com/alwell-health/alwell/internal/metrics"
)

const (
	SystemPrompt  = "You are a health assistant AI."
	FallbackReply = "Failed to get a response from the AI."
	WelcomeText   = "Welcome to the AI Health Chat! How can I assist you today?"
)

// Assistant forwards a single utterance plus context to the conversational API.
// Prior turns are never sent.
type Assistant struct {
	provider   ai.Provider
	dispatcher Dispatcher
}

// New creates an assistant; a nil dispatcher delivers inline.
func New(provider ai.Provider, dispatcher Dispatcher) *Assistant {
	if dispatcher == nil {
		dispatcher = Inline
	}
	return &Assistant{provider: provider, dispatcher: dispatcher}
}

// SendMessage always returns displayable text. Transport failures become
// "Error: <description>"; unusable responses become FallbackReply.
func (a *Assistant) SendMessage(ctx context.Context, userText, contextText string) string {
	req := ai.CompletionRequest{Messages: []ai.Message{
		{Role: ai.RoleSystem, Content: SystemPrompt},
		{Role: ai.RoleUser, Content: contextText + "\n\n" + userText},
	}}

	started := time.Now()
	reply, err := a.provider.Complete(ctx, req)
	metrics.ObserveAssistantLatency(time.Since(started).Seconds())

	switch {
	case err == nil:
		metrics.IncAssistantReply("ok")
		return reply
	case errors.Is(err, ai.ErrMalformedResponse):
		log.Printf("WARN assistant: unusable response: %v", err)
		metrics.IncAssistantReply("malformed")
		return FallbackReply
	default:
		log.Printf("WARN assistant: request failed: %v", err)
		metrics.IncAssistantReply("error")
		return "Error: " + err.Error()
	}
}

// SendMessageAsync returns immediately; deliver is invoked exactly once through
// the dispatcher. The request is not cancelled when ctx is.
func (a *Assistant) SendMessageAsync(ctx context.Context, userText, contextText string, deliver func(string)) {
	reqCtx := context.WithoutCancel(ctx)
	go func() {
		reply := a.SendMessage(reqCtx, userText, contextText)
		a.dispatcher.Dispatch(func() { deliver(reply) })
	}()
}
