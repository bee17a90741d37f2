package utils

import (
	"fmt"
	"time"
)

const minutesPerDay = 24 * 60

// ParseClock converts "HH:MM" to minutes since midnight.
func ParseClock(clock string) (int, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", clock, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock converts minutes since midnight back to "HH:MM".
func FormatClock(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// TokenMinutes is the estimated consultation start for token N:
// session start + (N-1) * average minutes per patient.
func TokenMinutes(startMinutes, tokenNumber, avgMinutes int) int {
	return startMinutes + (tokenNumber-1)*avgMinutes
}

// TokenForMinutes maps a requested time to a token number. Offsets that land
// exactly on a slot boundary map to that token; anything in between maps to
// the next token at or after the requested time. Offsets at or before the
// session start map to token 1.
func TokenForMinutes(startMinutes, requestedMinutes, avgMinutes int) int {
	offset := requestedMinutes - startMinutes
	if offset <= 0 || avgMinutes <= 0 {
		return 1
	}
	return (offset+avgMinutes-1)/avgMinutes + 1
}

// SessionFitsDay reports whether all maxTokens slots end before midnight.
// Sessions that would spill past 24h are rejected rather than wrapped.
func SessionFitsDay(startMinutes, maxTokens, avgMinutes int) bool {
	return startMinutes+maxTokens*avgMinutes <= minutesPerDay
}

// ParseDate parses an appointment date in YYYY-MM-DD form.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	return t, nil
}
