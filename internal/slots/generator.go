package slots

import (
	"sort"
	"time"
)

// DefaultSlotInterval is the bookable slot granularity.
const DefaultSlotInterval = 30 * time.Minute

// Generator expands consultation-hour ranges into discrete bookable
// slot start times.
type Generator struct {
	interval time.Duration
}

// NewGenerator creates a generator with the given granularity.
// Non-positive intervals fall back to the 30-minute default.
func NewGenerator(interval time.Duration) *Generator {
	if interval <= 0 {
		interval = DefaultSlotInterval
	}
	return &Generator{interval: interval}
}

// Interval returns the slot granularity.
func (g *Generator) Interval() time.Duration {
	return g.interval
}

// Expand emits a slot start time every interval from Start while the
// cursor stays strictly below End. A trailing slot that would land on
// or past End is excluded. Start >= End yields zero slots; that is a
// guarded condition, not an error.
func (g *Generator) Expand(r HourRange) []TimeOfDay {
	var out []TimeOfDay
	for cur := r.Start; cur.Before(r.End); cur = cur.Add(g.interval) {
		out = append(out, cur)
	}
	return out
}

// ForDay expands all ranges of one day independently, then deduplicates
// (overlapping ranges produce duplicate times) and sorts ascending.
func (g *Generator) ForDay(ranges []HourRange) []TimeOfDay {
	seen := make(map[TimeOfDay]struct{})
	var out []TimeOfDay
	for _, r := range ranges {
		for _, t := range g.Expand(r) {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
