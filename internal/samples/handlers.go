package samples

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
)

// Handler содержит HTTP обработчики для сэмплов
type Handler struct {
	service *Service
}

// NewHandler создаёт новый handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleBatch обрабатывает POST /v1/samples/batch
func (h *Handler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	resp, err := h.service.IngestBatch(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyBatch):
			h.sendError(w, http.StatusBadRequest, "empty_batch", "Batch contains no samples")
		case errors.Is(err, ErrBatchTooBig):
			h.sendError(w, http.StatusRequestEntityTooLarge, "batch_too_big", "Batch contains too many samples")
		case errors.Is(err, ErrInvalidType):
			h.sendError(w, http.StatusBadRequest, "invalid_type", "Unknown sample type")
		case errors.Is(err, ErrInvalidValue):
			h.sendError(w, http.StatusBadRequest, "invalid_value", "Sample value must be non-negative")
		case errors.Is(err, ErrInvalidTime):
			h.sendError(w, http.StatusBadRequest, "invalid_time", "Invalid time range")
		default:
			h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to store samples")
		}
		return
	}

	h.sendJSON(w, http.StatusOK, resp)
}

// HandleList обрабатывает GET /v1/samples
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.sendError(w, http.StatusBadRequest, "invalid_limit", "Invalid limit")
			return
		}
		limit = n
	}

	resp, err := h.service.List(r.Context(), r.URL.Query().Get("type"), limit)
	if err != nil {
		if errors.Is(err, ErrInvalidType) {
			h.sendError(w, http.StatusBadRequest, "invalid_type", "Unknown sample type")
			return
		}
		h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to list samples")
		return
	}

	h.sendJSON(w, http.StatusOK, resp)
}

func (h *Handler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) sendError(w http.ResponseWriter, status int, code, message string) {
	h.sendJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
