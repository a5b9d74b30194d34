package healthdata

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alwell-health/alwell/internal/storage"
	"github.com/alwell-health/alwell/internal/storage/memory"
	"github.com/google/uuid"
)

func seed(t *testing.T, st *memory.MemoryStorage, samples ...storage.Sample) {
	t.Helper()
	if _, err := st.InsertSamples(context.Background(), samples); err != nil {
		t.Fatalf("InsertSamples: %v", err)
	}
}

func TestResolve_SleepFieldsShareOneType(t *testing.T) {
	hours, ok := Resolve(MetricSleepHours)
	if !ok {
		t.Fatal("sleep_hours should resolve")
	}
	minutes, _ := Resolve(MetricSleepMinutes)
	if hours != minutes || hours != TypeSleepAnalysis {
		t.Errorf("expected both sleep fields to map to %s, got %s / %s", TypeSleepAnalysis, hours, minutes)
	}

	if _, ok := Resolve(Metric("blood_glucose")); ok {
		t.Error("unknown metric should not resolve")
	}
	if len(AllTypes) != 8 || len(AllMetrics) != 9 {
		t.Errorf("expected 8 types and 9 metrics, got %d / %d", len(AllTypes), len(AllMetrics))
	}
}

func TestQueriesBeforeAuthorization(t *testing.T) {
	p := NewStorageProvider(memory.New(), nil)

	if _, _, err := p.MostRecentSample(context.Background(), TypeHeartRate); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("expected ErrNotAuthorized, got %v", err)
	}
	if _, _, err := p.CumulativeSum(context.Background(), TypeStepCount, time.Time{}, time.Now()); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("expected ErrNotAuthorized, got %v", err)
	}
}

func TestMostRecentSample_NewestByStart(t *testing.T) {
	st := memory.New()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	newestID := uuid.New()
	seed(t, st,
		storage.Sample{Type: string(TypeHeartRate), Value: 60, Start: base, End: base},
		storage.Sample{ID: newestID, Type: string(TypeHeartRate), Value: 72, Start: base.Add(time.Hour), End: base.Add(time.Hour), Source: "watch"},
		storage.Sample{Type: string(TypeHeartRate), Value: 65, Start: base.Add(30 * time.Minute), End: base.Add(30 * time.Minute)},
	)

	p := NewStorageProvider(st, nil)
	if err := p.RequestAuthorization(context.Background(), AllTypes); err != nil {
		t.Fatalf("RequestAuthorization: %v", err)
	}

	sample, ok, err := p.MostRecentSample(context.Background(), TypeHeartRate)
	if err != nil || !ok {
		t.Fatalf("expected a sample, got ok=%v err=%v", ok, err)
	}
	if sample.Value != 72 {
		t.Errorf("expected 72, got %v", sample.Value)
	}
	if sample.ID != newestID || sample.Source != "watch" {
		t.Errorf("expected stored row identity, got id=%s source=%q", sample.ID, sample.Source)
	}

	if _, ok, err := p.MostRecentSample(context.Background(), TypeBodyMass); ok || err != nil {
		t.Errorf("expected empty result, got ok=%v err=%v", ok, err)
	}
}

func TestCumulativeSum_Window(t *testing.T) {
	st := memory.New()
	now := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)
	midnight := StartOfDay(now)
	seed(t, st,
		storage.Sample{Type: string(TypeStepCount), Value: 1000, Start: midnight.Add(-time.Hour), End: midnight.Add(-time.Hour)},
		storage.Sample{Type: string(TypeStepCount), Value: 2000, Start: midnight.Add(8 * time.Hour), End: midnight.Add(9 * time.Hour)},
		storage.Sample{Type: string(TypeStepCount), Value: 3000, Start: midnight.Add(12 * time.Hour), End: midnight.Add(13 * time.Hour)},
	)

	p := NewStorageProvider(st, nil)
	_ = p.RequestAuthorization(context.Background(), AllTypes)

	sum, ok, err := p.CumulativeSum(context.Background(), TypeStepCount, midnight, now)
	if err != nil || !ok {
		t.Fatalf("expected a sum, got ok=%v err=%v", ok, err)
	}
	if sum != 5000 {
		t.Errorf("expected 5000, got %v", sum)
	}

	if _, ok, _ := p.CumulativeSum(context.Background(), TypeActiveEnergy, midnight, now); ok {
		t.Error("expected no data for calories")
	}
}

func TestDeniedTypes(t *testing.T) {
	p := NewStorageProvider(memory.New(), []string{"vo2_max", "bogus"})

	err := p.RequestAuthorization(context.Background(), AllTypes)
	if !errors.Is(err, ErrTypeDenied) {
		t.Fatalf("expected ErrTypeDenied, got %v", err)
	}

	if _, _, err := p.MostRecentSample(context.Background(), TypeVO2Max); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("denied type should stay unauthorized, got %v", err)
	}
	if _, _, err := p.MostRecentSample(context.Background(), TypeHeartRate); err != nil {
		t.Errorf("other types should be authorized, got %v", err)
	}
}

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	got := StartOfDay(time.Date(2026, 3, 1, 1, 30, 0, 0, loc))
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
