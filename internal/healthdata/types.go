package healthdata

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotAuthorized = errors.New("health data access not authorized")
	ErrTypeDenied    = errors.New("health data type denied")
)

// Type is a provider-level quantity/category token.
type Type string

const (
	TypeHeartRate       Type = "heart_rate"
	TypeStepCount       Type = "step_count"
	TypeSleepAnalysis   Type = "sleep_analysis"
	TypeBodyMass        Type = "body_mass"
	TypeActiveEnergy    Type = "active_energy_burned"
	TypeExerciseTime    Type = "apple_exercise_time"
	TypeRespiratoryRate Type = "respiratory_rate"
	TypeVO2Max          Type = "vo2_max"
)

// AllTypes lists every token the snapshot reads, in refresh order.
var AllTypes = []Type{
	TypeHeartRate,
	TypeStepCount,
	TypeSleepAnalysis,
	TypeBodyMass,
	TypeActiveEnergy,
	TypeExerciseTime,
	TypeRespiratoryRate,
	TypeVO2Max,
}

// Metric is a snapshot field name.
type Metric string

const (
	MetricHeartRate       Metric = "heart_rate"
	MetricStepCount       Metric = "step_count"
	MetricSleepHours      Metric = "sleep_hours"
	MetricSleepMinutes    Metric = "sleep_minutes"
	MetricWeight          Metric = "weight"
	MetricCaloriesBurned  Metric = "calories_burned"
	MetricExerciseMinutes Metric = "exercise_minutes"
	MetricRespiratoryRate Metric = "respiratory_rate"
	MetricCardioVO2       Metric = "cardio_vo2"
)

// AllMetrics in display order.
var AllMetrics = []Metric{
	MetricHeartRate,
	MetricStepCount,
	MetricSleepHours,
	MetricSleepMinutes,
	MetricWeight,
	MetricCaloriesBurned,
	MetricExerciseMinutes,
	MetricRespiratoryRate,
	MetricCardioVO2,
}

// QueryKind selects between the two query shapes a provider answers.
type QueryKind int

const (
	// MostRecent returns the newest sample by start time.
	MostRecent QueryKind = iota
	// Cumulative sums samples since local midnight.
	Cumulative
)

var metricTypes = map[Metric]Type{
	MetricHeartRate:       TypeHeartRate,
	MetricStepCount:       TypeStepCount,
	MetricSleepHours:      TypeSleepAnalysis,
	MetricSleepMinutes:    TypeSleepAnalysis,
	MetricWeight:          TypeBodyMass,
	MetricCaloriesBurned:  TypeActiveEnergy,
	MetricExerciseMinutes: TypeExerciseTime,
	MetricRespiratoryRate: TypeRespiratoryRate,
	MetricCardioVO2:       TypeVO2Max,
}

var typeKinds = map[Type]QueryKind{
	TypeHeartRate:       MostRecent,
	TypeStepCount:       Cumulative,
	TypeSleepAnalysis:   MostRecent,
	TypeBodyMass:        MostRecent,
	TypeActiveEnergy:    Cumulative,
	TypeExerciseTime:    Cumulative,
	TypeRespiratoryRate: MostRecent,
	TypeVO2Max:          MostRecent,
}

// Resolve maps a metric to its provider type; ok=false when the platform has no such type.
func Resolve(m Metric) (Type, bool) {
	t, ok := metricTypes[m]
	return t, ok
}

// ParseMetric accepts a metric name as used in URLs.
func ParseMetric(s string) (Metric, bool) {
	m := Metric(s)
	_, ok := metricTypes[m]
	return m, ok
}

// ParseType validates a type token coming from a client.
func ParseType(s string) (Type, bool) {
	t := Type(s)
	_, ok := typeKinds[t]
	return t, ok
}

// Kind returns the query shape of a type.
func (t Type) Kind() QueryKind {
	return typeKinds[t]
}

// Sample is a single reading returned by a provider.
type Sample struct {
	ID     uuid.UUID
	Type   Type
	Value  float64
	Start  time.Time
	End    time.Time
	Source string
}

// Duration of the sample interval.
func (s Sample) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Provider is the platform health-data store the snapshot reads from.
type Provider interface {
	// RequestAuthorization asks for read access to all types at once
	RequestAuthorization(ctx context.Context, types []Type) error

	// MostRecentSample returns the newest sample by start; ok=false when there is none
	MostRecentSample(ctx context.Context, t Type) (Sample, bool, error)

	// CumulativeSum sums values with start in [from, to); ok=false when nothing matched
	CumulativeSum(ctx context.Context, t Type, from, to time.Time) (float64, bool, error)
}

// MetricsFor returns the snapshot fields fed by a type.
func MetricsFor(t Type) []Metric {
	var out []Metric
	for _, m := range AllMetrics {
		if metricTypes[m] == t {
			out = append(out, m)
		}
	}
	return out
}
