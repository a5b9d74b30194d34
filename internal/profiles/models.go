package profiles

import (
	"time"
)

// Ключи key-value хранилища, под которыми лежит профиль
const (
	KeyFirstName       = "user_first_name"
	KeyBirthDate       = "user_birth_date"
	KeyGender          = "user_gender"
	KeyEthnicity       = "user_ethnicity"
	KeyChronicDiseases = "user_chronic_diseases"
	KeySetupComplete   = "is_user_setup_complete"
)

// BirthDateLayout: формат даты рождения в хранилище и API
const BirthDateLayout = "2006-01-02"

// MinAge: минимальный возраст для онбординга
const MinAge = 13

var (
	Genders         = []string{"Male", "Female", "Other"}
	Ethnicities     = []string{"Asian", "Black or African American", "Hispanic or Latino", "White", "Other"}
	ChronicDiseases = []string{"Diabetes", "Hypertension", "Asthma", "Heart Disease", "None", "Other"}
)

// UserProfile: данные пользователя, собранные при онбординге
type UserProfile struct {
	FirstName       string
	BirthDate       *time.Time
	Gender          string
	Ethnicity       string
	ChronicDiseases string
	SetupComplete   bool
}

// OnboardingRequest: запрос для PUT /v1/profile
type OnboardingRequest struct {
	FirstName       string `json:"first_name"`
	BirthDate       string `json:"birth_date"` // YYYY-MM-DD
	Gender          string `json:"gender"`
	Ethnicity       string `json:"ethnicity"`
	ChronicDiseases string `json:"chronic_diseases"`
}

// ProfileDTO: DTO для API
type ProfileDTO struct {
	FirstName       string  `json:"first_name"`
	BirthDate       *string `json:"birth_date"`
	Age             *int    `json:"age"`
	Gender          string  `json:"gender"`
	Ethnicity       string  `json:"ethnicity"`
	ChronicDiseases string  `json:"chronic_diseases"`
	SetupComplete   bool    `json:"setup_complete"`
}

// StatusResponse: ответ для GET /v1/profile/status
type StatusResponse struct {
	SetupComplete bool `json:"setup_complete"`
}

// OptionsResponse: варианты для форм онбординга
type OptionsResponse struct {
	Genders         []string `json:"genders"`
	Ethnicities     []string `json:"ethnicities"`
	ChronicDiseases []string `json:"chronic_diseases"`
	MinAge          int      `json:"min_age"`
}

// ErrorResponse: формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
