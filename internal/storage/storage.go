package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("not found")
)

// KeyValueStorage is the process-wide key-value store the profile lives in.
type KeyValueStorage interface {
	// Get returns the value stored under key; ok=false when the key is absent
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// SetMany writes all pairs in one step
	SetMany(ctx context.Context, values map[string]string) error

	// Delete removes a key (missing keys are not an error)
	Delete(ctx context.Context, key string) error
}

// Sample is one reading recorded by the health-data source.
type Sample struct {
	ID        uuid.UUID
	Type      string // health type token, e.g. "heart_rate"
	Value     float64
	Start     time.Time
	End       time.Time
	Source    string
	CreatedAt time.Time
}

// SamplesStorage holds raw health samples queried by the health-data provider.
type SamplesStorage interface {
	// InsertSamples stores samples (IDs are assigned when nil)
	InsertSamples(ctx context.Context, samples []Sample) (int, error)

	// LatestSample returns the sample with the newest start for a type
	LatestSample(ctx context.Context, sampleType string) (*Sample, error)

	// SumSamples sums values for a type whose start falls in [from, to)
	SumSamples(ctx context.Context, sampleType string, from, to time.Time) (sum float64, count int, err error)

	// ListSamples returns the most recent samples newest first; empty type means all
	ListSamples(ctx context.Context, sampleType string, limit int) ([]Sample, error)
}

// ReportsStorage keeps metadata (and in memory mode, bytes) of exported reports.
type ReportsStorage interface {
	CreateReport(ctx context.Context, report *ReportMeta) error
	GetReport(ctx context.Context, id uuid.UUID) (*ReportMeta, error)
	ListReports(ctx context.Context, limit int) ([]ReportMeta, error)
	DeleteReport(ctx context.Context, id uuid.UUID) error
}

// ReportMeta describes an exported snapshot report.
type ReportMeta struct {
	ID          uuid.UUID
	Format      string // "pdf", "csv" or "xlsx"
	ObjectKey   string
	ContentType string
	SizeBytes   int64
	CreatedAt   time.Time
}

// Storage bundles every store the server needs from one backend.
type Storage interface {
	KeyValueStorage
	SamplesStorage
	ReportsStorage

	// Close releases the backend connection
	Close() error
}
