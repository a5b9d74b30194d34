package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alwell-health/alwell/internal/storage"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS app_settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS health_samples (
    id TEXT PRIMARY KEY,
    sample_type TEXT NOT NULL,
    value REAL NOT NULL,
    start_at DATETIME NOT NULL,
    end_at DATETIME NOT NULL,
    source TEXT NOT NULL DEFAULT '',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_health_samples_type_start ON health_samples(sample_type, start_at DESC);

CREATE TABLE IF NOT EXISTS reports (
    id TEXT PRIMARY KEY,
    format TEXT NOT NULL,
    object_key TEXT NOT NULL,
    content_type TEXT NOT NULL,
    size_bytes INTEGER NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// SQLiteStorage is the on-device storage.Storage backend.
type SQLiteStorage struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database file and applies the schema.
func Open(ctx context.Context, path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite serialises writers; one connection avoids "database is locked"
	db.SetMaxOpenConns(1)

	s, err := NewWithDB(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB wraps an existing handle; the schema is applied on the way in.
func NewWithDB(ctx context.Context, db *sql.DB) (*SQLiteStorage, error) {
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SQLiteStorage{db: db, now: time.Now}, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM app_settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *SQLiteStorage) SetMany(ctx context.Context, values map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for k, v := range values {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO app_settings (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at",
			k, v, s.now().UTC(),
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStorage) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM app_settings WHERE key = ?", key)
	return err
}

func (s *SQLiteStorage) InsertSamples(ctx context.Context, samples []storage.Sample) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := s.now().UTC()
	inserted := 0
	for i := range samples {
		if samples[i].ID == uuid.Nil {
			samples[i].ID = uuid.New()
		}
		samples[i].CreatedAt = now
		res, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO health_samples (id, sample_type, value, start_at, end_at, source, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			samples[i].ID.String(), samples[i].Type, samples[i].Value, samples[i].Start.UTC(), samples[i].End.UTC(), samples[i].Source, now,
		)
		if err != nil {
			return 0, err
		}
		n, _ := res.RowsAffected()
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

func (s *SQLiteStorage) LatestSample(ctx context.Context, sampleType string) (*storage.Sample, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, sample_type, value, start_at, end_at, source, created_at FROM health_samples WHERE sample_type = ? ORDER BY start_at DESC, created_at DESC LIMIT 1",
		sampleType,
	)
	sample, err := scanSample(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sample, nil
}

func (s *SQLiteStorage) SumSamples(ctx context.Context, sampleType string, from, to time.Time) (float64, int, error) {
	var sum float64
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(value), 0), COUNT(*) FROM health_samples WHERE sample_type = ? AND start_at >= ? AND start_at < ?",
		sampleType, from.UTC(), to.UTC(),
	).Scan(&sum, &count)
	if err != nil {
		return 0, 0, err
	}
	return sum, count, nil
}

func (s *SQLiteStorage) ListSamples(ctx context.Context, sampleType string, limit int) ([]storage.Sample, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, sample_type, value, start_at, end_at, source, created_at FROM health_samples WHERE (? = '' OR sample_type = ?) ORDER BY start_at DESC LIMIT ?",
		sampleType, sampleType, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []storage.Sample{}
	for rows.Next() {
		sample, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *sample)
	}
	return result, rows.Err()
}

func (s *SQLiteStorage) CreateReport(ctx context.Context, report *storage.ReportMeta) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	report.CreatedAt = s.now().UTC()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO reports (id, format, object_key, content_type, size_bytes, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		report.ID.String(), report.Format, report.ObjectKey, report.ContentType, report.SizeBytes, report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) GetReport(ctx context.Context, id uuid.UUID) (*storage.ReportMeta, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, format, object_key, content_type, size_bytes, created_at FROM reports WHERE id = ?",
		id.String(),
	)
	report, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (s *SQLiteStorage) ListReports(ctx context.Context, limit int) ([]storage.ReportMeta, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, format, object_key, content_type, size_bytes, created_at FROM reports ORDER BY created_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []storage.ReportMeta{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *report)
	}
	return result, rows.Err()
}

func (s *SQLiteStorage) DeleteReport(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM reports WHERE id = ?", id.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSample(row rowScanner) (*storage.Sample, error) {
	var (
		sample storage.Sample
		id     string
	)
	if err := row.Scan(&id, &sample.Type, &sample.Value, &sample.Start, &sample.End, &sample.Source, &sample.CreatedAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid sample id %q: %w", id, err)
	}
	sample.ID = parsed
	return &sample, nil
}

func scanReport(row rowScanner) (*storage.ReportMeta, error) {
	var (
		report storage.ReportMeta
		id     string
	)
	if err := row.Scan(&id, &report.Format, &report.ObjectKey, &report.ContentType, &report.SizeBytes, &report.CreatedAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid report id %q: %w", id, err)
	}
	report.ID = parsed
	return &report, nil
}
