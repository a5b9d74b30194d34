package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterIsIdempotent(t *testing.T) {
	Register()
	Register()
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(healthFetches.WithLabelValues("heart_rate", "ok"))
	IncHealthFetch("heart_rate", "ok")
	if got := testutil.ToFloat64(healthFetches.WithLabelValues("heart_rate", "ok")); got != before+1 {
		t.Errorf("expected %v, got %v", before+1, got)
	}

	before = testutil.ToFloat64(samplesIngested)
	AddSamplesIngested(0)
	AddSamplesIngested(3)
	if got := testutil.ToFloat64(samplesIngested); got != before+3 {
		t.Errorf("expected %v, got %v", before+3, got)
	}
}
