package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) HandleOpenSession(w http.ResponseWriter, r *http.Request) {
	session := h.service.Open()
	writeJSON(w, http.StatusCreated, SessionDTO{
		ID:       session.ID,
		Messages: messagesToDTO(session.Messages()),
	})
}

func (h *Handler) HandleCloseSession(w http.ResponseWriter, r *http.Request) {
	id, ok := parseSessionID(w, r)
	if !ok {
		return
	}
	if err := h.service.Close(id); err != nil {
		h.handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	id, ok := parseSessionID(w, r)
	if !ok {
		return
	}

	session, err := h.service.Get(id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ListMessagesResponse{
		Messages: messagesToDTO(session.Messages()),
		Pending:  session.Pending(),
	})
}

func (h *Handler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseSessionID(w, r)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	if req.Async {
		userMsg, err := h.service.SendAsync(r.Context(), id, req.Text)
		if err != nil {
			h.handleError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, SendMessageResponse{
			UserMessage: messageToDTO(userMsg),
			Pending:     true,
		})
		return
	}

	userMsg, reply, err := h.service.Send(r.Context(), id, req.Text)
	if err != nil {
		h.handleError(w, err)
		return
	}

	replyDTO := messageToDTO(reply)
	writeJSON(w, http.StatusOK, SendMessageResponse{
		UserMessage:      messageToDTO(userMsg),
		AssistantMessage: &replyDTO,
	})
}

func parseSessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid session id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid_request", "Message text is required")
	case errors.Is(err, ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session_not_found", "Chat session not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
