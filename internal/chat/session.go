package chat

import (
	"sync"

	"github.com/google/uuid"
)

// Session is an in-memory transcript for one open chat screen.
type Session struct {
	ID uuid.UUID

	mu       sync.Mutex
	messages []ChatMessage
	pending  int
}

func (s *Session) append(msg ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

// Messages returns a copy of the transcript in insertion order.
func (s *Session) Messages() []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Pending is the number of replies still in flight.
func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *Session) addPending(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending += delta
}
