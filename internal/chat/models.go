package chat

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one transcript entry. Messages are never edited or removed.
type ChatMessage struct {
	ID        uuid.UUID
	Text      string
	IsUser    bool
	CreatedAt time.Time
}

type ChatMessageDTO struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	IsUser    bool      `json:"is_user"`
	CreatedAt time.Time `json:"created_at"`
}

type SessionDTO struct {
	ID       uuid.UUID        `json:"id"`
	Messages []ChatMessageDTO `json:"messages"`
}

type SendMessageRequest struct {
	Text  string `json:"text"`
	Async bool   `json:"async,omitempty"`
}

type SendMessageResponse struct {
	UserMessage      ChatMessageDTO  `json:"user_message"`
	AssistantMessage *ChatMessageDTO `json:"assistant_message,omitempty"`
	Pending          bool            `json:"pending,omitempty"`
}

type ListMessagesResponse struct {
	Messages []ChatMessageDTO `json:"messages"`
	Pending  int              `json:"pending"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func messageToDTO(msg ChatMessage) ChatMessageDTO {
	return ChatMessageDTO{
		ID:        msg.ID,
		Text:      msg.Text,
		IsUser:    msg.IsUser,
		CreatedAt: msg.CreatedAt,
	}
}

func messagesToDTO(msgs []ChatMessage) []ChatMessageDTO {
	out := make([]ChatMessageDTO, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, messageToDTO(msg))
	}
	return out
}
