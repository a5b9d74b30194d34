package samples

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/alwell-health/alwell/internal/healthdata"
	"github.com/alwell-health/alwell/internal/metrics"
	"github.com/alwell-health/alwell/internal/storage"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
	maxBatchSize     = 1000
)

var (
	ErrEmptyBatch   = errors.New("empty batch")
	ErrBatchTooBig  = errors.New("batch too big")
	ErrInvalidType  = errors.New("invalid sample type")
	ErrInvalidValue = errors.New("invalid sample value")
	ErrInvalidTime  = errors.New("invalid time range")
)

// Service содержит бизнес-логику загрузки сэмплов
type Service struct {
	storage storage.SamplesStorage
}

// NewService создаёт новый сервис
func NewService(st storage.SamplesStorage) *Service {
	return &Service{storage: st}
}

// IngestBatch валидирует и сохраняет батч сэмплов
func (s *Service) IngestBatch(ctx context.Context, req BatchRequest) (*BatchResponse, error) {
	if len(req.Samples) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(req.Samples) > maxBatchSize {
		return nil, ErrBatchTooBig
	}

	rows := make([]storage.Sample, 0, len(req.Samples))
	for _, in := range req.Samples {
		t, ok := healthdata.ParseType(strings.TrimSpace(in.Type))
		if !ok {
			return nil, ErrInvalidType
		}
		if in.Value < 0 || math.IsNaN(in.Value) || math.IsInf(in.Value, 0) {
			return nil, ErrInvalidValue
		}
		if in.Start.IsZero() || in.End.IsZero() || in.End.Before(in.Start) {
			return nil, ErrInvalidTime
		}

		rows = append(rows, storage.Sample{
			Type:   string(t),
			Value:  in.Value,
			Start:  in.Start,
			End:    in.End,
			Source: strings.TrimSpace(in.Source),
		})
	}

	inserted, err := s.storage.InsertSamples(ctx, rows)
	if err != nil {
		return nil, err
	}
	metrics.AddSamplesIngested(inserted)

	return &BatchResponse{
		Status:   "ok",
		Received: len(req.Samples),
		Inserted: inserted,
	}, nil
}

// List возвращает последние сэмплы (новые первыми)
func (s *Service) List(ctx context.Context, sampleType string, limit int) (*ListResponse, error) {
	sampleType = strings.TrimSpace(sampleType)
	if sampleType != "" {
		if _, ok := healthdata.ParseType(sampleType); !ok {
			return nil, ErrInvalidType
		}
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	rows, err := s.storage.ListSamples(ctx, sampleType, limit)
	if err != nil {
		return nil, err
	}

	resp := &ListResponse{Samples: make([]SampleDTO, 0, len(rows))}
	for _, row := range rows {
		resp.Samples = append(resp.Samples, SampleDTO{
			ID:        row.ID,
			Type:      row.Type,
			Value:     row.Value,
			Start:     row.Start,
			End:       row.End,
			Source:    row.Source,
			CreatedAt: row.CreatedAt,
		})
	}
	return resp, nil
}
