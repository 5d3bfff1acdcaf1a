package models

import "time"

// Appointment method values as delivered by the appointment API.
const (
	MethodInPerson = "in_person"
	MethodVideo    = "video"
)

// Appointment is a booked appointment. Date comes from the upstream API
// in either "DD/MM/YYYY" or "YYYY-MM-DD" form; Time is 24h "HH:MM:SS"
// or "HH:MM". The meeting evaluator normalizes both at its boundary.
type Appointment struct {
	ID          int64     `json:"id"`
	DoctorID    int64     `json:"doctor_id"`
	PatientName string    `json:"patient_name,omitempty"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	MeetLink    string    `json:"meet_link,omitempty"`
	Method      string    `json:"appointment_method,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsVirtual reports whether the appointment has a joinable meeting.
func (a *Appointment) IsVirtual() bool {
	return a.Method == MethodVideo || a.MeetLink != ""
}
