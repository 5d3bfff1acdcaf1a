package meeting

import (
	"fmt"
	"time"
)

// humanizeUntil renders a positive duration as countdown text: largest
// unit first, zero sub-units dropped. Minutes below an hour, hours plus
// minutes below a day, then days plus hours.
func humanizeUntil(d time.Duration) string {
	mins := int(d / time.Minute)
	if mins < 1 {
		mins = 1
	}

	if mins < 60 {
		return fmt.Sprintf("in %s", plural(mins, "min"))
	}

	hours := mins / 60
	if hours < 24 {
		rem := mins % 60
		if rem == 0 {
			return fmt.Sprintf("in %s", plural(hours, "hr"))
		}
		return fmt.Sprintf("in %s %s", plural(hours, "hr"), plural(rem, "min"))
	}

	days := hours / 24
	remHours := hours % 24
	if remHours == 0 {
		return fmt.Sprintf("in %s", plural(days, "day"))
	}
	return fmt.Sprintf("in %s %s", plural(days, "day"), plural(remHours, "hr"))
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
