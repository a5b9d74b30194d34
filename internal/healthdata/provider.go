package healthdata

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/alwell-health/alwell/internal/storage"
)

// StorageProvider answers provider queries from the samples table.
type StorageProvider struct {
	samples storage.SamplesStorage

	mu         sync.RWMutex
	authorized map[Type]bool
	denied     map[Type]bool
}

// NewStorageProvider creates a provider; deniedTypes are refused at authorization time.
func NewStorageProvider(samples storage.SamplesStorage, deniedTypes []string) *StorageProvider {
	denied := make(map[Type]bool, len(deniedTypes))
	for _, raw := range deniedTypes {
		t, ok := ParseType(raw)
		if !ok {
			log.Printf("WARN healthdata: ignoring unknown denied type %q", raw)
			continue
		}
		denied[t] = true
	}

	return &StorageProvider{
		samples:    samples,
		authorized: make(map[Type]bool),
		denied:     denied,
	}
}

func (p *StorageProvider) RequestAuthorization(ctx context.Context, types []Type) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var deniedTypes []Type
	for _, t := range types {
		if p.denied[t] {
			deniedTypes = append(deniedTypes, t)
			continue
		}
		p.authorized[t] = true
	}

	if len(deniedTypes) > 0 {
		return fmt.Errorf("%w: %v", ErrTypeDenied, deniedTypes)
	}
	return nil
}

func (p *StorageProvider) isAuthorized(t Type) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.authorized[t]
}

func (p *StorageProvider) MostRecentSample(ctx context.Context, t Type) (Sample, bool, error) {
	if !p.isAuthorized(t) {
		return Sample{}, false, ErrNotAuthorized
	}

	row, err := p.samples.LatestSample(ctx, string(t))
	if errors.Is(err, storage.ErrNotFound) {
		return Sample{}, false, nil
	}
	if err != nil {
		return Sample{}, false, err
	}

	return Sample{
		ID:     row.ID,
		Type:   t,
		Value:  row.Value,
		Start:  row.Start,
		End:    row.End,
		Source: row.Source,
	}, true, nil
}

func (p *StorageProvider) CumulativeSum(ctx context.Context, t Type, from, to time.Time) (float64, bool, error) {
	if !p.isAuthorized(t) {
		return 0, false, ErrNotAuthorized
	}

	sum, count, err := p.samples.SumSamples(ctx, string(t), from, to)
	if err != nil {
		return 0, false, err
	}
	if count == 0 {
		return 0, false, nil
	}
	return sum, true, nil
}

// StartOfDay returns local midnight of the day containing t.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
