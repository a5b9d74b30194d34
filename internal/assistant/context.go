package assistant

import (
	"fmt"
	"strings"
	"time"

	"github.com/alwell-health/alwell/internal/profiles"
	"github.com/alwell-health/alwell/internal/snapshot"
)

const (
	defaultName            = "User"
	defaultGender          = "Unknown"
	defaultEthnicity       = "Unknown"
	defaultChronicDiseases = "None"
)

// BuildProfileContext renders the profile block. Missing fields get defaults;
// a missing birth date counts as born now (age 0).
func BuildProfileContext(p *profiles.UserProfile, now time.Time) string {
	if p == nil {
		p = &profiles.UserProfile{}
	}

	birth := now
	if p.BirthDate != nil {
		birth = *p.BirthDate
	}
	age := profiles.Age(birth, now)
	if age < 0 {
		age = 0
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", orDefault(p.FirstName, defaultName))
	fmt.Fprintf(&b, "Age: %d\n", age)
	fmt.Fprintf(&b, "Gender: %s\n", orDefault(p.Gender, defaultGender))
	fmt.Fprintf(&b, "Ethnicity: %s\n", orDefault(p.Ethnicity, defaultEthnicity))
	fmt.Fprintf(&b, "Chronic Diseases: %s", orDefault(p.ChronicDiseases, defaultChronicDiseases))
	return b.String()
}

// BuildHealthContext renders every snapshot field, zeros included.
func BuildHealthContext(s snapshot.Snapshot) string {
	lines := []string{
		"Health Data:",
		fmt.Sprintf("Heart Rate: %.1f BPM", s.HeartRate),
		fmt.Sprintf("Steps: %.1f", s.StepCount),
		fmt.Sprintf("Sleep: %dh %dm", s.Sleep.Hours, s.Sleep.Minutes),
		fmt.Sprintf("Weight: %.1f lbs", s.Weight),
		fmt.Sprintf("Calories Burned: %.1f kcal", s.CaloriesBurned),
		fmt.Sprintf("Exercise Minutes: %.1f min", s.ExerciseMinutes),
		fmt.Sprintf("Respiratory Rate: %.1f breaths/min", s.RespiratoryRate),
		fmt.Sprintf("Cardio Fitness VO2: %.1f mL/kg/min", s.CardioVO2),
	}
	return strings.Join(lines, "\n")
}

// BuildContext joins the profile and health blocks with a blank line.
func BuildContext(p *profiles.UserProfile, s snapshot.Snapshot, now time.Time) string {
	return BuildProfileContext(p, now) + "\n\n" + BuildHealthContext(s)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
