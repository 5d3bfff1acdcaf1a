package slots

import (
	"time"

	"medibook/internal/models"
)

// HourRange is a parsed consultation time range.
type HourRange struct {
	Start TimeOfDay
	End   TimeOfDay
}

// rawEntry preserves one consultation-hours entry in the order it was
// received, which the next-slot resolver's legacy fallback depends on.
type rawEntry struct {
	dayName string
	weekday time.Weekday
	known   bool
	ranges  []HourRange
}

// WeekIndex is a weekday lookup over a doctor's raw consultation hours.
// Ranges for a repeated day are concatenated in input order; overlapping
// ranges are kept as-is and may produce duplicate slot times downstream.
type WeekIndex struct {
	byDay map[time.Weekday][]HourRange
	raw   []rawEntry
}

// NewWeekIndex builds the index. Entries with unparseable start or end
// times are skipped; entries with unknown day names are kept for the
// resolver fallback but never match a calendar date. A doctor with no
// consultation hours yields an empty index, not an error.
func NewWeekIndex(entries []models.DaySchedule) *WeekIndex {
	ix := &WeekIndex{byDay: make(map[time.Weekday][]HourRange)}

	for _, e := range entries {
		var ranges []HourRange
		for _, h := range e.Hours {
			start, err := ParseTimeOfDay(h.StartTime)
			if err != nil {
				continue
			}
			end, err := ParseTimeOfDay(h.EndTime)
			if err != nil {
				continue
			}
			ranges = append(ranges, HourRange{Start: start, End: end})
		}

		weekday, known := ParseWeekday(e.Day)
		ix.raw = append(ix.raw, rawEntry{dayName: e.Day, weekday: weekday, known: known, ranges: ranges})
		if known {
			ix.byDay[weekday] = append(ix.byDay[weekday], ranges...)
		}
	}

	return ix
}

// RangesOn returns all ranges scheduled on the given weekday, in the
// order they were received.
func (ix *WeekIndex) RangesOn(d time.Weekday) []HourRange {
	return ix.byDay[d]
}

// HasDay reports whether the weekday has at least one range.
func (ix *WeekIndex) HasDay(d time.Weekday) bool {
	return len(ix.byDay[d]) > 0
}

// Empty reports whether no weekday has any range.
func (ix *WeekIndex) Empty() bool {
	for _, ranges := range ix.byDay {
		if len(ranges) > 0 {
			return false
		}
	}
	return true
}
