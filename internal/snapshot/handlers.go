package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// HandleGet обрабатывает GET /v1/snapshot
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Snapshot())
}

// HandleRefreshAll обрабатывает POST /v1/snapshot/refresh
func (h *Handler) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	h.store.RefreshAll(r.Context())
	writeJSON(w, http.StatusAccepted, StatusResponse{Status: "refreshing"})
}

// HandleRefreshOne обрабатывает POST /v1/snapshot/refresh/{metric}
func (h *Handler) HandleRefreshOne(w http.ResponseWriter, r *http.Request) {
	metric := r.PathValue("metric")
	if err := h.store.RefreshOne(r.Context(), metric); err != nil {
		switch {
		case errors.Is(err, ErrUnknownMetric):
			writeError(w, http.StatusNotFound, "unknown_metric", "Unknown metric")
		case errors.Is(err, ErrClosed):
			writeError(w, http.StatusServiceUnavailable, "unavailable", "Snapshot store is shutting down")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
		}
		return
	}
	writeJSON(w, http.StatusAccepted, StatusResponse{Status: "refreshing", Metric: metric})
}

// HandleAuthorize обрабатывает POST /v1/health/authorize
func (h *Handler) HandleAuthorize(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RequestAuthorization(r.Context()); err != nil {
		writeError(w, http.StatusForbidden, "authorization_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "authorized"})
}

// HandleStream обрабатывает GET /v1/snapshot/stream (server-sent events)
func (h *Handler) HandleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming_unsupported", "Streaming unsupported")
		return
	}

	updates, cancel := h.store.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, h.store.Snapshot()); err != nil {
		return
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			if err := writeEvent(w, snap); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: snapshot\nid: %d\ndata: %s\n\n", snap.Version, data)
	return err
}

type StatusResponse struct {
	Status string `json:"status"`
	Metric string `json:"metric,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
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
