package slots

import (
	"sort"
	"time"
)

// NextSlot is the "Available: <day>, <time>" badge payload for doctor
// list views. Day is the display day name; Time is the raw range start,
// not an interval-aligned or past-filtered slot.
type NextSlot struct {
	Day  string
	Time TimeOfDay
}

// Resolver finds the earliest advertised slot for "today or the
// doctor's next scheduled day". It is a display hint only: it does not
// consult Availability, so the returned time may already have passed.
// Booking eligibility is still decided by the full generate-and-filter
// path.
type Resolver struct {
	index *WeekIndex

	// Chronological switches the no-hours-today fallback from the
	// historical first-raw-entry behavior to a scan for the nearest
	// scheduled weekday after today.
	Chronological bool
}

// NewResolver creates a resolver with the historical fallback behavior.
func NewResolver(index *WeekIndex) *Resolver {
	return &Resolver{index: index}
}

// Next returns the badge payload, or ok == false when the doctor has no
// consultation hours at all.
func (r *Resolver) Next(now time.Time) (NextSlot, bool) {
	today := now.Weekday()
	if ranges := r.index.RangesOn(today); len(ranges) > 0 {
		sorted := make([]HourRange, len(ranges))
		copy(sorted, ranges)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })
		return NextSlot{Day: today.String(), Time: sorted[0].Start}, true
	}

	if r.Chronological {
		return r.nextScheduledWeekday(today)
	}
	return r.legacyFirstEntryFallback()
}

// legacyFirstEntryFallback returns the first entry of the raw
// consultation-hours array, whatever its weekday. This is not the
// chronologically nearest day; the behavior is kept for compatibility
// with existing badge rendering and isolated here so it can be replaced
// via Chronological without touching the rest of the engine.
func (r *Resolver) legacyFirstEntryFallback() (NextSlot, bool) {
	for _, e := range r.index.raw {
		if len(e.ranges) > 0 {
			return NextSlot{Day: e.dayName, Time: e.ranges[0].Start}, true
		}
	}
	return NextSlot{}, false
}

// nextScheduledWeekday scans up to a week ahead for the nearest
// scheduled day and returns its earliest range start.
func (r *Resolver) nextScheduledWeekday(today time.Weekday) (NextSlot, bool) {
	for offset := 1; offset <= 7; offset++ {
		d := time.Weekday((int(today) + offset) % 7)
		ranges := r.index.RangesOn(d)
		if len(ranges) == 0 {
			continue
		}
		best := ranges[0].Start
		for _, rg := range ranges[1:] {
			if rg.Start.Before(best) {
				best = rg.Start
			}
		}
		return NextSlot{Day: d.String(), Time: best}, true
	}
	return NextSlot{}, false
}
