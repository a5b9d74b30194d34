package ai

import (
	"context"
	"strings"
	"testing"

	"github.com/alwell-health/alwell/internal/config"
)

func TestNewProvider_Modes(t *testing.T) {
	p, err := NewProvider(context.Background(), &config.Config{AIMode: ""})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(*MockProvider); !ok {
		t.Errorf("expected mock provider, got %T", p)
	}

	p, err = NewProvider(context.Background(), &config.Config{AIMode: "OpenAI", OpenAIAPIKey: "k"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(*OpenAIProvider); !ok {
		t.Errorf("expected openai provider, got %T", p)
	}
}

func TestMockProvider_ExtractsQuestion(t *testing.T) {
	reply, err := NewMockProvider().Complete(context.Background(), CompletionRequest{Messages: []Message{
		{Role: RoleSystem, Content: "You are a health assistant AI."},
		{Role: RoleUser, Content: "Name: Sam\nAge: 20\n\nHow did I sleep?"},
	}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(reply, `"How did I sleep?"`) || !strings.Contains(reply, "2 lines") {
		t.Errorf("unexpected mock reply %q", reply)
	}
}
