package slots

import "time"

// weekdayNames maps the full English weekday names used by the doctor
// directory to the closed weekday enumeration. Matching is
// case-sensitive: anything else is inert and never matches a date.
var weekdayNames = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

// ParseWeekday resolves a free-form day name to a weekday.
func ParseWeekday(name string) (time.Weekday, bool) {
	d, ok := weekdayNames[name]
	return d, ok
}
