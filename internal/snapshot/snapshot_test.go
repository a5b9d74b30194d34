package snapshot

import (
	"testing"
	"time"

	"github.com/alwell-health/alwell/internal/healthdata"
)

func TestSleepFromDuration(t *testing.T) {
	cases := []struct {
		name string
		d    time.Duration
		want Sleep
	}{
		{"7h45m", 7*time.Hour + 45*time.Minute, Sleep{Hours: 7, Minutes: 45}},
		{"zero", 0, Sleep{}},
		{"23h59m", 23*time.Hour + 59*time.Minute, Sleep{Hours: 23, Minutes: 59}},
		{"rounds seconds", 6*time.Hour + 30*time.Minute + 40*time.Second, Sleep{Hours: 6, Minutes: 31}},
		{"rounds up to 60 minutes without carry", 7*time.Hour + 59*time.Minute + 45*time.Second, Sleep{Hours: 7, Minutes: 60}},
		{"negative", -time.Hour, Sleep{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SleepFromDuration(tc.d); got != tc.want {
				t.Errorf("SleepFromDuration(%v) = %+v, want %+v", tc.d, got, tc.want)
			}
		})
	}
}

func TestUpdateApply_SleepSetsBothFields(t *testing.T) {
	snap := Snapshot{UpdatedAt: map[healthdata.Metric]time.Time{}}
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	update{healthType: healthdata.TypeSleepAnalysis, sleep: Sleep{Hours: 7, Minutes: 45}, at: at}.applyTo(&snap)

	if snap.Sleep.Hours != 7 || snap.Sleep.Minutes != 45 {
		t.Errorf("unexpected sleep %+v", snap.Sleep)
	}
	if !snap.Fresh(healthdata.MetricSleepHours) || !snap.Fresh(healthdata.MetricSleepMinutes) {
		t.Error("both sleep fields should be marked fresh")
	}
	if snap.Fresh(healthdata.MetricHeartRate) {
		t.Error("heart rate should not be fresh")
	}
}

func TestSnapshotClone_IsIndependent(t *testing.T) {
	orig := Snapshot{UpdatedAt: map[healthdata.Metric]time.Time{healthdata.MetricWeight: time.Now()}}
	c := orig.clone()
	c.UpdatedAt[healthdata.MetricHeartRate] = time.Now()

	if orig.Fresh(healthdata.MetricHeartRate) {
		t.Error("clone shares UpdatedAt with the original")
	}
}
