package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/alwell-health/alwell/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresReportsStorage: Postgres storage для метаданных отчётов
type PostgresReportsStorage struct {
	pool *pgxpool.Pool
}

// NewReportsStorage создаёт новое Postgres хранилище
func NewReportsStorage(pool *pgxpool.Pool) *PostgresReportsStorage {
	return &PostgresReportsStorage{pool: pool}
}

// CreateReport сохраняет метаданные отчёта
func (s *PostgresReportsStorage) CreateReport(ctx context.Context, report *storage.ReportMeta) error {
	query := `
		INSERT INTO reports (id, format, object_key, content_type, size_bytes, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at
	`

	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}

	err := s.pool.QueryRow(ctx, query,
		report.ID,
		report.Format,
		report.ObjectKey,
		report.ContentType,
		report.SizeBytes,
	).Scan(&report.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	return nil
}

// GetReport возвращает отчёт по ID
func (s *PostgresReportsStorage) GetReport(ctx context.Context, id uuid.UUID) (*storage.ReportMeta, error) {
	query := `
		SELECT id, format, object_key, content_type, size_bytes, created_at
		FROM reports
		WHERE id = $1
	`

	var r storage.ReportMeta
	err := s.pool.QueryRow(ctx, query, id).Scan(&r.ID, &r.Format, &r.ObjectKey, &r.ContentType, &r.SizeBytes, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	return &r, nil
}

// ListReports возвращает отчёты, новые первыми
func (s *PostgresReportsStorage) ListReports(ctx context.Context, limit int) ([]storage.ReportMeta, error) {
	query := `
		SELECT id, format, object_key, content_type, size_bytes, created_at
		FROM reports
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	result := []storage.ReportMeta{}
	for rows.Next() {
		var r storage.ReportMeta
		if err := rows.Scan(&r.ID, &r.Format, &r.ObjectKey, &r.ContentType, &r.SizeBytes, &r.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// DeleteReport удаляет метаданные отчёта
func (s *PostgresReportsStorage) DeleteReport(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
