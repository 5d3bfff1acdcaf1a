package store

import (
	"context"
	"fmt"

	"medibook/internal/models"
)

// SyncDoctors mirrors upstream doctor records into the local store,
// keeping upstream IDs. Locally-managed blackout dates are preserved;
// upstream unavailable dates are merged in.
func (s *Store) SyncDoctors(ctx context.Context, doctors []models.Doctor) error {
	for i := range doctors {
		d := &doctors[i]
		if _, err := s.ExecContext(ctx,
			`INSERT INTO doctors (id, name, specialty) VALUES (?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET name = excluded.name, specialty = excluded.specialty,
			 updated_at = CURRENT_TIMESTAMP`,
			d.ID, d.Name, d.Specialty,
		); err != nil {
			return fmt.Errorf("upsert doctor %d: %w", d.ID, err)
		}

		if err := s.ReplaceConsultationHours(ctx, d.ID, d.ConsultationHours); err != nil {
			return fmt.Errorf("sync hours for doctor %d: %w", d.ID, err)
		}

		for _, date := range d.UnavailableDates {
			if err := s.AddBlackout(ctx, d.ID, date); err != nil {
				s.logger.Warn().Err(err).Int64("doctor_id", d.ID).Str("date", date).
					Msg("skipping malformed upstream blackout date")
			}
		}
	}

	s.logger.Info().Int("doctors", len(doctors)).Msg("doctor sync complete")
	return nil
}

// SyncAppointments mirrors upstream appointments. Dates must already be
// normalized to "2006-01-02" by the caller.
func (s *Store) SyncAppointments(ctx context.Context, apps []models.Appointment) error {
	for i := range apps {
		a := &apps[i]
		if _, err := s.ExecContext(ctx,
			`INSERT INTO appointments (id, doctor_id, patient_name, date, time, meet_link, method)
			 VALUES (?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET doctor_id = excluded.doctor_id,
			 patient_name = excluded.patient_name, date = excluded.date, time = excluded.time,
			 meet_link = excluded.meet_link, method = excluded.method,
			 updated_at = CURRENT_TIMESTAMP`,
			a.ID, a.DoctorID, a.PatientName, a.Date, a.Time, a.MeetLink, a.Method,
		); err != nil {
			return fmt.Errorf("upsert appointment %d: %w", a.ID, err)
		}
	}

	s.logger.Info().Int("appointments", len(apps)).Msg("appointment sync complete")
	return nil
}
