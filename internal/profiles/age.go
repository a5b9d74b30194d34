package profiles

import "time"

// Age returns completed years between birth and now: the calendar-year
// difference, minus one if now's (month, day) is before the birth (month, day).
func Age(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return years
}
