package assistant

import (
	"strings"
	"testing"
	"time"

	"github.com/alwell-health/alwell/internal/profiles"
	"github.com/alwell-health/alwell/internal/snapshot"
)

var now = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func TestBuildProfileContext_Defaults(t *testing.T) {
	got := BuildProfileContext(&profiles.UserProfile{}, now)
	want := "Name: User\nAge: 0\nGender: Unknown\nEthnicity: Unknown\nChronic Diseases: None"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	if BuildProfileContext(nil, now) != want {
		t.Error("nil profile should render defaults")
	}
}

func TestBuildProfileContext_Filled(t *testing.T) {
	birth := time.Date(2006, 6, 16, 0, 0, 0, 0, time.UTC)
	p := &profiles.UserProfile{
		FirstName:       "Sam",
		BirthDate:       &birth,
		Gender:          "Other",
		Ethnicity:       "White",
		ChronicDiseases: "Asthma",
	}

	got := BuildProfileContext(p, now)
	for _, line := range []string{"Name: Sam", "Age: 19", "Gender: Other", "Ethnicity: White", "Chronic Diseases: Asthma"} {
		if !strings.Contains(got, line) {
			t.Errorf("missing %q in:\n%s", line, got)
		}
	}
}

func TestBuildHealthContext_AllFieldsWithUnits(t *testing.T) {
	s := snapshot.Snapshot{
		HeartRate:       72,
		StepCount:       5000,
		Sleep:           snapshot.Sleep{Hours: 7, Minutes: 45},
		Weight:          165.25,
		CaloriesBurned:  420,
		ExerciseMinutes: 35,
		RespiratoryRate: 14,
		CardioVO2:       42.34,
	}

	want := strings.Join([]string{
		"Health Data:",
		"Heart Rate: 72.0 BPM",
		"Steps: 5000.0",
		"Sleep: 7h 45m",
		"Weight: 165.2 lbs",
		"Calories Burned: 420.0 kcal",
		"Exercise Minutes: 35.0 min",
		"Respiratory Rate: 14.0 breaths/min",
		"Cardio Fitness VO2: 42.3 mL/kg/min",
	}, "\n")

	if got := BuildHealthContext(s); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildHealthContext_ZeroValuesPrinted(t *testing.T) {
	got := BuildHealthContext(snapshot.Snapshot{})
	for _, line := range []string{"Heart Rate: 0.0 BPM", "Sleep: 0h 0m", "Cardio Fitness VO2: 0.0 mL/kg/min"} {
		if !strings.Contains(got, line) {
			t.Errorf("missing %q in:\n%s", line, got)
		}
	}
}

func TestBuildContext_JoinsWithBlankLine(t *testing.T) {
	got := BuildContext(nil, snapshot.Snapshot{}, now)
	parts := strings.Split(got, "\n\n")
	if len(parts) != 2 {
		t.Fatalf("expected two blocks, got %d", len(parts))
	}
	if !strings.HasPrefix(parts[0], "Name: ") || !strings.HasPrefix(parts[1], "Health Data:") {
		t.Errorf("unexpected blocks: %q", parts)
	}
}
