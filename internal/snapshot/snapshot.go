package snapshot

import (
	"math"
	"time"

	"github.com/alwell-health/alwell/internal/healthdata"
)

// Sleep is the last night's duration split into whole hours and minutes.
type Sleep struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// SleepFromDuration splits a sleep interval. Minutes are rounded from the
// fractional hour and may reach 60 (7h 60m).
func SleepFromDuration(d time.Duration) Sleep {
	if d <= 0 {
		return Sleep{}
	}

	durationHours := d.Seconds() / 3600
	hours := int(durationHours)
	minutes := int(math.Round((durationHours - float64(hours)) * 60))
	return Sleep{Hours: hours, Minutes: minutes}
}

// Snapshot is an immutable copy of the latest known metric values.
// Fields update independently, so one Snapshot can mix values from different refresh cycles.
type Snapshot struct {
	HeartRate       float64 `json:"heart_rate"`
	StepCount       float64 `json:"step_count"`
	Sleep           Sleep   `json:"sleep"`
	Weight          float64 `json:"weight"`
	CaloriesBurned  float64 `json:"calories_burned"`
	ExerciseMinutes float64 `json:"exercise_minutes"`
	RespiratoryRate float64 `json:"respiratory_rate"`
	CardioVO2       float64 `json:"cardio_vo2"`

	// UpdatedAt holds the last apply time per field; absent means never fetched
	UpdatedAt map[healthdata.Metric]time.Time `json:"updated_at"`
	Version   uint64                          `json:"version"`
}

func (s Snapshot) clone() Snapshot {
	out := s
	out.UpdatedAt = make(map[healthdata.Metric]time.Time, len(s.UpdatedAt))
	for k, v := range s.UpdatedAt {
		out.UpdatedAt[k] = v
	}
	return out
}

// Fresh reports whether a field has ever been filled from the provider.
func (s Snapshot) Fresh(m healthdata.Metric) bool {
	_, ok := s.UpdatedAt[m]
	return ok
}

// update is one completed fetch waiting to be applied by the owner goroutine.
type update struct {
	healthType healthdata.Type
	seq        uint64
	value      float64
	sleep      Sleep
	at         time.Time
}

func (u update) applyTo(s *Snapshot) {
	switch u.healthType {
	case healthdata.TypeHeartRate:
		s.HeartRate = u.value
	case healthdata.TypeStepCount:
		s.StepCount = u.value
	case healthdata.TypeSleepAnalysis:
		s.Sleep = u.sleep
	case healthdata.TypeBodyMass:
		s.Weight = u.value
	case healthdata.TypeActiveEnergy:
		s.CaloriesBurned = u.value
	case healthdata.TypeExerciseTime:
		s.ExerciseMinutes = u.value
	case healthdata.TypeRespiratoryRate:
		s.RespiratoryRate = u.value
	case healthdata.TypeVO2Max:
		s.CardioVO2 = u.value
	}

	for _, m := range healthdata.MetricsFor(u.healthType) {
		s.UpdatedAt[m] = u.at
	}
}
