package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/alwell-health/alwell/internal/storage"
	"github.com/google/uuid"
)

// SamplesMemoryStorage: in-memory реализация SamplesStorage
type SamplesMemoryStorage struct {
	mu      sync.RWMutex
	samples []storage.Sample
}

// NewSamplesMemoryStorage создаёт новый SamplesMemoryStorage
func NewSamplesMemoryStorage() *SamplesMemoryStorage {
	return &SamplesMemoryStorage{}
}

func (s *SamplesMemoryStorage) InsertSamples(ctx context.Context, samples []storage.Sample) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for i := range samples {
		if samples[i].ID == uuid.Nil {
			samples[i].ID = uuid.New()
		}
		samples[i].CreatedAt = now
		s.samples = append(s.samples, samples[i])
	}
	return len(samples), nil
}

func (s *SamplesMemoryStorage) LatestSample(ctx context.Context, sampleType string) (*storage.Sample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *storage.Sample
	for i := range s.samples {
		row := s.samples[i]
		if row.Type != sampleType {
			continue
		}
		// при равном start побеждает более поздняя вставка
		if latest == nil || !row.Start.Before(latest.Start) {
			latest = &row
		}
	}
	if latest == nil {
		return nil, storage.ErrNotFound
	}
	return latest, nil
}

func (s *SamplesMemoryStorage) SumSamples(ctx context.Context, sampleType string, from, to time.Time) (float64, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum float64
	count := 0
	for _, row := range s.samples {
		if row.Type != sampleType {
			continue
		}
		if row.Start.Before(from) || !row.Start.Before(to) {
			continue
		}
		sum += row.Value
		count++
	}
	return sum, count, nil
}

func (s *SamplesMemoryStorage) ListSamples(ctx context.Context, sampleType string, limit int) ([]storage.Sample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]storage.Sample, 0, len(s.samples))
	for _, row := range s.samples {
		if sampleType == "" || row.Type == sampleType {
			result = append(result, row)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Start.After(result[j].Start)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
