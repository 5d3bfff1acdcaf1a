package slots

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a clock time without a date, parsed once at the schedule
// boundary so the engine never compares raw strings.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// ParseTimeOfDay parses "HH:MM:SS" or "HH:MM" (24h, zero-padded or not).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return TimeOfDay{}, fmt.Errorf("invalid time format: %q", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	second := 0
	if len(parts) == 3 {
		second, err = strconv.Atoi(parts[2])
		if err != nil {
			return TimeOfDay{}, fmt.Errorf("invalid second in %q: %w", s, err)
		}
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return TimeOfDay{}, fmt.Errorf("time out of range: %q", s)
	}

	return TimeOfDay{Hour: hour, Minute: minute, Second: second}, nil
}

// String renders zero-padded 24h "HH:MM:SS". Lexical order on this form
// matches chronological order.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Display renders the time the way booking screens show it, e.g. "9:30 AM".
func (t TimeOfDay) Display() string {
	return time.Date(0, 1, 1, t.Hour, t.Minute, t.Second, 0, time.UTC).Format("3:04 PM")
}

func (t TimeOfDay) seconds() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

// Before reports whether t is strictly earlier than u.
func (t TimeOfDay) Before(u TimeOfDay) bool {
	return t.seconds() < u.seconds()
}

// Add advances t by d. The result saturates within the same day: adding
// past midnight yields a value not before 24:00:00 in comparisons, so
// generation loops terminate.
func (t TimeOfDay) Add(d time.Duration) TimeOfDay {
	total := t.seconds() + int(d/time.Second)
	return TimeOfDay{Hour: total / 3600, Minute: total % 3600 / 60, Second: total % 60}
}

// On combines the time with a calendar date in the date's location.
// Seconds are zeroed, matching how booking clients compare slot times
// against the wall clock.
func (t TimeOfDay) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, date.Location())
}
