package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/alwell-health/alwell/internal/assistant"
	"github.com/alwell-health/alwell/internal/profiles"
	"github.com/alwell-health/alwell/internal/snapshot"
	"github.com/google/uuid"
)

var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrSessionNotFound = errors.New("chat session not found")
)

type profileSource interface {
	Profile() *profiles.UserProfile
}

type snapshotSource interface {
	Snapshot() snapshot.Snapshot
}

type replier interface {
	SendMessage(ctx context.Context, userText, contextText string) string
	SendMessageAsync(ctx context.Context, userText, contextText string, deliver func(string))
}

type Service struct {
	profile   profileSource
	snapshots snapshotSource
	assistant replier
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewService(profile profileSource, snapshots snapshotSource, assistant replier) *Service {
	return &Service{
		profile:   profile,
		snapshots: snapshots,
		assistant: assistant,
		now:       time.Now,
		sessions:  make(map[uuid.UUID]*Session),
	}
}

// Open starts a transcript seeded with the welcome message.
func (s *Service) Open() *Session {
	session := &Session{ID: uuid.New()}
	session.append(s.newMessage(assistant.WelcomeText, false))

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()
	return session
}

// Close drops the transcript; replies still in flight are discarded on arrival.
func (s *Service) Close(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *Service) Get(id uuid.UUID) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Send appends the user message, asks the assistant with a freshly built
// context and appends the reply.
func (s *Service) Send(ctx context.Context, id uuid.UUID, text string) (ChatMessage, ChatMessage, error) {
	session, userMsg, contextText, err := s.prepare(id, text)
	if err != nil {
		return ChatMessage{}, ChatMessage{}, err
	}

	reply := s.assistant.SendMessage(ctx, userMsg.Text, contextText)
	replyMsg := s.newMessage(reply, false)
	session.append(replyMsg)
	return userMsg, replyMsg, nil
}

// SendAsync appends the user message and returns; the reply is appended when it arrives.
func (s *Service) SendAsync(ctx context.Context, id uuid.UUID, text string) (ChatMessage, error) {
	session, userMsg, contextText, err := s.prepare(id, text)
	if err != nil {
		return ChatMessage{}, err
	}

	session.addPending(1)
	s.assistant.SendMessageAsync(ctx, userMsg.Text, contextText, func(reply string) {
		session.append(s.newMessage(reply, false))
		session.addPending(-1)
	})
	return userMsg, nil
}

func (s *Service) prepare(id uuid.UUID, text string) (*Session, ChatMessage, string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ChatMessage{}, "", ErrInvalidRequest
	}

	session, err := s.Get(id)
	if err != nil {
		return nil, ChatMessage{}, "", err
	}

	userMsg := s.newMessage(text, true)
	session.append(userMsg)

	contextText := assistant.BuildContext(s.profile.Profile(), s.snapshots.Snapshot(), s.now())
	return session, userMsg, contextText, nil
}

func (s *Service) newMessage(text string, isUser bool) ChatMessage {
	return ChatMessage{
		ID:        uuid.New(),
		Text:      text,
		IsUser:    isUser,
		CreatedAt: s.now().UTC(),
	}
}
