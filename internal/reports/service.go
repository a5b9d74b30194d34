package reports

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/alwell-health/alwell/internal/blob"
	"github.com/alwell-health/alwell/internal/metrics"
	"github.com/alwell-health/alwell/internal/profiles"
	"github.com/alwell-health/alwell/internal/snapshot"
	"github.com/alwell-health/alwell/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrInvalidFormat  = errors.New("invalid format")
	ErrReportNotFound = errors.New("report not found")
)

type profileSource interface {
	Profile() *profiles.UserProfile
}

type snapshotSource interface {
	Snapshot() snapshot.Snapshot
}

// Service handles reports business logic
type Service struct {
	reportsStorage storage.ReportsStorage
	blobStore      blob.Store
	profile        profileSource
	snapshots      snapshotSource
	presignTTL     time.Duration
	maxKeep        int
	now            func() time.Time
}

// NewService creates a new reports service
func NewService(
	reportsStorage storage.ReportsStorage,
	blobStore blob.Store,
	profile profileSource,
	snapshots snapshotSource,
	presignTTLSeconds int,
	maxKeep int,
) *Service {
	if presignTTLSeconds <= 0 {
		presignTTLSeconds = 900
	}
	return &Service{
		reportsStorage: reportsStorage,
		blobStore:      blobStore,
		profile:        profile,
		snapshots:      snapshots,
		presignTTL:     time.Duration(presignTTLSeconds) * time.Second,
		maxKeep:        maxKeep,
		now:            time.Now,
	}
}

// CreateReport renders the current profile and snapshot and stores the file
func (s *Service) CreateReport(ctx context.Context, req CreateReportRequest) (*storage.ReportMeta, error) {
	format := strings.ToLower(strings.TrimSpace(req.Format))
	contentType, ok := contentTypes[format]
	if !ok {
		return nil, ErrInvalidFormat
	}

	data, err := Render(format, ReportData{
		GeneratedAt: s.now(),
		Profile:     s.profile.Profile(),
		Snapshot:    s.snapshots.Snapshot(),
	})
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	key := fmt.Sprintf("reports/%s.%s", id, format)

	size, err := s.blobStore.PutObject(ctx, key, data, contentType)
	if err != nil {
		return nil, err
	}

	meta := &storage.ReportMeta{
		ID:          id,
		Format:      format,
		ObjectKey:   key,
		ContentType: contentType,
		SizeBytes:   size,
	}
	if err := s.reportsStorage.CreateReport(ctx, meta); err != nil {
		_ = s.blobStore.DeleteObject(ctx, key)
		return nil, err
	}
	metrics.IncReportCreated(format)

	s.prune(ctx)
	return meta, nil
}

// ListReports returns the newest reports first
func (s *Service) ListReports(ctx context.Context, limit int) ([]storage.ReportMeta, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return s.reportsStorage.ListReports(ctx, limit)
}

// Download returns a presigned URL when the blob store supports it, otherwise the bytes
func (s *Service) Download(ctx context.Context, id uuid.UUID) (*storage.ReportMeta, string, []byte, error) {
	meta, err := s.reportsStorage.GetReport(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, "", nil, ErrReportNotFound
		}
		return nil, "", nil, err
	}

	url, err := s.blobStore.PresignGet(ctx, meta.ObjectKey, s.presignTTL)
	if err == nil {
		return meta, url, nil, nil
	}
	if !errors.Is(err, blob.ErrPresignNotSupported) {
		return nil, "", nil, err
	}

	data, err := s.blobStore.GetObject(ctx, meta.ObjectKey)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, "", nil, ErrReportNotFound
		}
		return nil, "", nil, err
	}
	return meta, "", data, nil
}

// DeleteReport removes the metadata and the stored file
func (s *Service) DeleteReport(ctx context.Context, id uuid.UUID) error {
	meta, err := s.reportsStorage.GetReport(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrReportNotFound
		}
		return err
	}

	if err := s.reportsStorage.DeleteReport(ctx, id); err != nil {
		return err
	}
	if err := s.blobStore.DeleteObject(ctx, meta.ObjectKey); err != nil {
		log.Printf("WARN reports: delete object %s: %v", meta.ObjectKey, err)
	}
	return nil
}

// prune keeps at most maxKeep reports
func (s *Service) prune(ctx context.Context) {
	if s.maxKeep <= 0 {
		return
	}

	all, err := s.reportsStorage.ListReports(ctx, s.maxKeep+100)
	if err != nil {
		log.Printf("WARN reports: prune list failed: %v", err)
		return
	}
	for _, old := range all[min(len(all), s.maxKeep):] {
		if err := s.DeleteReport(ctx, old.ID); err != nil {
			log.Printf("WARN reports: prune %s failed: %v", old.ID, err)
		}
	}
}
