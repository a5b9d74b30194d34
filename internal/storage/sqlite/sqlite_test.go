package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alwell-health/alwell/internal/storage"
	"github.com/google/uuid"
)

func setupMockStorage(t *testing.T) (*SQLiteStorage, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS app_settings`).WillReturnResult(sqlmock.NewResult(0, 0))

	s, err := NewWithDB(context.Background(), db)
	if err != nil {
		t.Fatalf("NewWithDB: %v", err)
	}
	s.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s, mock
}

func TestGet_MissingKey(t *testing.T) {
	s, mock := setupMockStorage(t)

	mock.ExpectQuery(`SELECT value FROM app_settings`).
		WithArgs("user_first_name").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	value, ok, err := s.Get(context.Background(), "user_first_name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok || value != "" {
		t.Errorf("expected missing key, got %q ok=%v", value, ok)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestGet_ExistingKey(t *testing.T) {
	s, mock := setupMockStorage(t)

	mock.ExpectQuery(`SELECT value FROM app_settings`).
		WithArgs("user_gender").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("Female"))

	value, ok, err := s.Get(context.Background(), "user_gender")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || value != "Female" {
		t.Errorf("expected Female, got %q ok=%v", value, ok)
	}
}

func TestSetMany_CommitsTransaction(t *testing.T) {
	s, mock := setupMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO app_settings`).
		WithArgs("user_first_name", "Sam", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := s.SetMany(context.Background(), map[string]string{"user_first_name": "Sam"}); err != nil {
		t.Fatalf("SetMany: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSetMany_RollsBackOnError(t *testing.T) {
	s, mock := setupMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO app_settings`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	if err := s.SetMany(context.Background(), map[string]string{"k": "v"}); err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestInsertSamples_AssignsIDs(t *testing.T) {
	s, mock := setupMockStorage(t)

	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	samples := []storage.Sample{
		{Type: "heart_rate", Value: 72, Start: start, End: start},
		{Type: "step_count", Value: 500, Start: start, End: start.Add(time.Hour)},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT OR IGNORE INTO health_samples`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT OR IGNORE INTO health_samples`).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	n, err := s.InsertSamples(context.Background(), samples)
	if err != nil {
		t.Fatalf("InsertSamples: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 inserted, got %d", n)
	}
	for i, sample := range samples {
		if sample.ID == uuid.Nil {
			t.Errorf("sample %d has no id", i)
		}
	}
}

func TestLatestSample_NotFound(t *testing.T) {
	s, mock := setupMockStorage(t)

	mock.ExpectQuery(`SELECT id, sample_type, value`).
		WithArgs("weight").
		WillReturnRows(sqlmock.NewRows([]string{"id", "sample_type", "value", "start_at", "end_at", "source", "created_at"}))

	_, err := s.LatestSample(context.Background(), "weight")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLatestSample_ScansRow(t *testing.T) {
	s, mock := setupMockStorage(t)

	id := uuid.New()
	start := time.Date(2026, 3, 1, 7, 30, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, sample_type, value`).
		WithArgs("heart_rate").
		WillReturnRows(sqlmock.NewRows([]string{"id", "sample_type", "value", "start_at", "end_at", "source", "created_at"}).
			AddRow(id.String(), "heart_rate", 72.0, start, start, "watch", start))

	sample, err := s.LatestSample(context.Background(), "heart_rate")
	if err != nil {
		t.Fatalf("LatestSample: %v", err)
	}
	if sample.ID != id || sample.Value != 72 || sample.Source != "watch" {
		t.Errorf("unexpected sample: %+v", sample)
	}
}

func TestSumSamples(t *testing.T) {
	s, mock := setupMockStorage(t)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(12 * time.Hour)
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(value\), 0\), COUNT\(\*\)`).
		WithArgs("step_count", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"sum", "count"}).AddRow(5000.0, 3))

	sum, count, err := s.SumSamples(context.Background(), "step_count", from, to)
	if err != nil {
		t.Fatalf("SumSamples: %v", err)
	}
	if sum != 5000 || count != 3 {
		t.Errorf("expected 5000/3, got %v/%d", sum, count)
	}
}

func TestDeleteReport_NotFound(t *testing.T) {
	s, mock := setupMockStorage(t)

	id := uuid.New()
	mock.ExpectExec(`DELETE FROM reports`).
		WithArgs(id.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.DeleteReport(context.Background(), id); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateReport_SetsIDAndTimestamp(t *testing.T) {
	s, mock := setupMockStorage(t)

	mock.ExpectExec(`INSERT INTO reports`).WillReturnResult(sqlmock.NewResult(1, 1))

	report := &storage.ReportMeta{Format: "csv", ObjectKey: "reports/x.csv", ContentType: "text/csv", SizeBytes: 10}
	if err := s.CreateReport(context.Background(), report); err != nil {
		t.Fatalf("CreateReport: %v", err)
	}
	if report.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
	if !report.CreatedAt.Equal(s.now()) {
		t.Errorf("unexpected created_at %v", report.CreatedAt)
	}
}
