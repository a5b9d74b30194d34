package samples

import (
	"time"

	"github.com/google/uuid"
)

// BatchRequest: запрос для батчевой загрузки сэмплов
type BatchRequest struct {
	Samples []SampleInput `json:"samples"`
}

// SampleInput: один сэмпл от клиента
type SampleInput struct {
	Type   string    `json:"type"`
	Value  float64   `json:"value"`
	Start  time.Time `json:"start"` // RFC3339
	End    time.Time `json:"end"`   // RFC3339
	Source string    `json:"source,omitempty"`
}

// BatchResponse: ответ на батчевую загрузку
type BatchResponse struct {
	Status   string `json:"status"`
	Received int    `json:"received"`
	Inserted int    `json:"inserted"`
}

// SampleDTO: сэмпл в ответе GET /v1/samples
type SampleDTO struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Value     float64   `json:"value"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ListResponse: ответ для GET /v1/samples
type ListResponse struct {
	Samples []SampleDTO `json:"samples"`
}

// ErrorResponse: формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
