package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/alwell-health/alwell/internal/storage"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for reports
type Handler struct {
	service *Service
}

// NewHandler creates a new reports handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleCreate handles POST /v1/reports
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	meta, err := h.service.CreateReport(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidFormat) {
			writeError(w, http.StatusBadRequest, "invalid_format", "Format must be pdf, csv or xlsx")
			return
		}
		log.Printf("ERROR reports: create failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to create report")
		return
	}

	writeJSON(w, http.StatusCreated, toDTO(*meta))
}

// HandleList handles GET /v1/reports
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_limit", "Invalid limit")
			return
		}
		limit = n
	}

	rows, err := h.service.ListReports(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list reports")
		return
	}

	resp := ReportsResponse{Reports: make([]ReportDTO, 0, len(rows))}
	for _, row := range rows {
		resp.Reports = append(resp.Reports, toDTO(row))
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleDownload handles GET /v1/reports/{id}/download
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid report ID")
		return
	}

	meta, url, data, err := h.service.Download(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Report not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to download report")
		return
	}

	if url != "" {
		http.Redirect(w, r, url, http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", meta.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="alwell-report-%s.%s"`, meta.CreatedAt.Format("20060102-150405"), meta.Format))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// HandleDelete handles DELETE /v1/reports/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid report ID")
		return
	}

	if err := h.service.DeleteReport(r.Context(), id); err != nil {
		if errors.Is(err, ErrReportNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Report not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to delete report")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toDTO(meta storage.ReportMeta) ReportDTO {
	return ReportDTO{
		ID:          meta.ID,
		Format:      meta.Format,
		ContentType: meta.ContentType,
		SizeBytes:   meta.SizeBytes,
		DownloadURL: fmt.Sprintf("/v1/reports/%s/download", meta.ID),
		CreatedAt:   meta.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
