package models

import "time"

// HourRange is a single consultation time range as delivered by the
// doctor directory API. Times are 24h strings, "HH:MM:SS" or "HH:MM".
type HourRange struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// DaySchedule is one consultation-hours entry: a weekday name with its
// time ranges. The same day may appear more than once; entries are
// merged by the schedule index, never deduplicated.
type DaySchedule struct {
	Day   string      `json:"day"`
	Hours []HourRange `json:"hours"`
}

// Doctor is a doctor record with its recurring weekly schedule.
// UnavailableDates are calendar-exact blackout dates, "2006-01-02".
type Doctor struct {
	ID                int64         `json:"id"`
	Name              string        `json:"name"`
	Specialty         string        `json:"specialty,omitempty"`
	ConsultationHours []DaySchedule `json:"consultation_hours"`
	UnavailableDates  []string      `json:"unavailable_dates"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// HasSchedule reports whether the doctor has any consultation hours at all.
func (d *Doctor) HasSchedule() bool {
	for _, e := range d.ConsultationHours {
		if len(e.Hours) > 0 {
			return true
		}
	}
	return false
}
