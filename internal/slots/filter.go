package slots

import "time"

// Reasons a date fails the availability check, in evaluation order.
const (
	ReasonPast        = "past"
	ReasonUnscheduled = "unscheduled"
	ReasonBlackout    = "blackout"
)

// Availability answers date-level bookability questions for one doctor.
type Availability struct {
	index     *WeekIndex
	blackouts map[string]struct{}
}

// NewAvailability combines a schedule index with the doctor's blackout
// dates ("2006-01-02" strings).
func NewAvailability(index *WeekIndex, unavailableDates []string) *Availability {
	blackouts := make(map[string]struct{}, len(unavailableDates))
	for _, d := range unavailableDates {
		blackouts[d] = struct{}{}
	}
	return &Availability{index: index, blackouts: blackouts}
}

// DateAvailable reports whether the date can be offered for booking.
// The three checks are independent; any one failing excludes the date:
// the date is strictly before today (date-only, time ignored), its
// weekday is not among the scheduled days, or it is blackout-listed.
func (a *Availability) DateAvailable(date, now time.Time) bool {
	return a.UnavailableReason(date, now) == ""
}

// UnavailableReason returns "" for an available date, otherwise the
// first failing check as a reason string for API responses.
func (a *Availability) UnavailableReason(date, now time.Time) string {
	if dateOnly(date).Before(dateOnly(now)) {
		return ReasonPast
	}
	if !a.index.HasDay(date.Weekday()) {
		return ReasonUnscheduled
	}
	if _, blocked := a.blackouts[date.Format("2006-01-02")]; blocked {
		return ReasonBlackout
	}
	return ""
}

// FilterPast removes slots the clock has already passed, but only when
// date is the same calendar day as now; for any other day the input is
// returned unchanged. A slot survives only if its wall-clock instant
// (seconds zeroed) is strictly after now.
//
// Callers holding a selected slot must clear the selection when this
// filter drops it; the engine never mutates selection state itself.
func FilterPast(in []TimeOfDay, date, now time.Time) []TimeOfDay {
	if !sameDay(date, now) {
		return in
	}

	out := make([]TimeOfDay, 0, len(in))
	for _, t := range in {
		if t.On(now).After(now) {
			out = append(out, t)
		}
	}
	return out
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
