package profiles

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Handler содержит HTTP обработчики для профиля
type Handler struct {
	session *Session
}

// NewHandler создаёт новый handler
func NewHandler(session *Session) *Handler {
	return &Handler{session: session}
}

// HandleGet обрабатывает GET /v1/profile
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p := h.session.Profile()
	h.sendJSON(w, http.StatusOK, h.session.service.toDTO(p))
}

// HandleStatus обрабатывает GET /v1/profile/status
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, http.StatusOK, StatusResponse{SetupComplete: h.session.Profile().SetupComplete})
}

// HandleOptions обрабатывает GET /v1/profile/options
func (h *Handler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, http.StatusOK, OptionsResponse{
		Genders:         Genders,
		Ethnicities:     Ethnicities,
		ChronicDiseases: ChronicDiseases,
		MinAge:          MinAge,
	})
}

// HandleOnboarding обрабатывает PUT /v1/profile
func (h *Handler) HandleOnboarding(w http.ResponseWriter, r *http.Request) {
	var req OnboardingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	p, err := h.session.CompleteOnboarding(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidFirstName):
			h.sendError(w, http.StatusBadRequest, "invalid_first_name", "Please enter a valid first name.")
		case errors.Is(err, ErrInvalidBirthDate):
			h.sendError(w, http.StatusBadRequest, "invalid_birth_date", "Birth date must be YYYY-MM-DD")
		case errors.Is(err, ErrTooYoung):
			h.sendError(w, http.StatusBadRequest, "too_young", "You must be at least 13 years old.")
		case errors.Is(err, ErrInvalidGender):
			h.sendError(w, http.StatusBadRequest, "invalid_gender", "Gender must be Male, Female or Other")
		default:
			h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to save profile")
		}
		return
	}

	h.sendJSON(w, http.StatusOK, h.session.service.toDTO(p))
}

// sendJSON отправляет JSON ответ
func (h *Handler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// sendError отправляет ошибку в формате ErrorResponse
func (h *Handler) sendError(w http.ResponseWriter, status int, code, message string) {
	h.sendJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
