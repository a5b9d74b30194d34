package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/alwell-health/alwell/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSamplesStorage: Postgres реализация SamplesStorage
type PostgresSamplesStorage struct {
	pool *pgxpool.Pool
}

// NewSamplesStorage создаёт PostgresSamplesStorage
func NewSamplesStorage(pool *pgxpool.Pool) *PostgresSamplesStorage {
	return &PostgresSamplesStorage{pool: pool}
}

func (p *PostgresSamplesStorage) InsertSamples(ctx context.Context, samples []storage.Sample) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for i := range samples {
		if samples[i].ID == uuid.Nil {
			samples[i].ID = uuid.New()
		}
		batch.Queue(`
			INSERT INTO health_samples (id, sample_type, value, start_at, end_at, source, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW())
			ON CONFLICT DO NOTHING
		`, samples[i].ID, samples[i].Type, samples[i].Value, samples[i].Start, samples[i].End, samples[i].Source)
	}

	results := p.pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range samples {
		tag, err := results.Exec()
		if err != nil {
			return inserted, err
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

func (p *PostgresSamplesStorage) LatestSample(ctx context.Context, sampleType string) (*storage.Sample, error) {
	query := `
		SELECT id, sample_type, value, start_at, end_at, source, created_at
		FROM health_samples
		WHERE sample_type = $1
		ORDER BY start_at DESC, created_at DESC
		LIMIT 1
	`

	var row storage.Sample
	err := p.pool.QueryRow(ctx, query, sampleType).Scan(
		&row.ID, &row.Type, &row.Value, &row.Start, &row.End, &row.Source, &row.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (p *PostgresSamplesStorage) SumSamples(ctx context.Context, sampleType string, from, to time.Time) (float64, int, error) {
	query := `
		SELECT COALESCE(SUM(value), 0), COUNT(*)
		FROM health_samples
		WHERE sample_type = $1 AND start_at >= $2 AND start_at < $3
	`

	var sum float64
	var count int
	if err := p.pool.QueryRow(ctx, query, sampleType, from, to).Scan(&sum, &count); err != nil {
		return 0, 0, err
	}
	return sum, count, nil
}

func (p *PostgresSamplesStorage) ListSamples(ctx context.Context, sampleType string, limit int) ([]storage.Sample, error) {
	query := `
		SELECT id, sample_type, value, start_at, end_at, source, created_at
		FROM health_samples
		WHERE ($1 = '' OR sample_type = $1)
		ORDER BY start_at DESC
		LIMIT $2
	`

	rows, err := p.pool.Query(ctx, query, sampleType, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []storage.Sample{}
	for rows.Next() {
		var row storage.Sample
		if err := rows.Scan(&row.ID, &row.Type, &row.Value, &row.Start, &row.End, &row.Source, &row.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
