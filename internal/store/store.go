package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"

	"medibook/internal/models"
)

var (
	ErrNotFound = errors.New("not found")
)

// Store persists doctor schedules, blackout dates and appointments in
// SQLite. Doctor records and appointments mirror the upstream
// directory; blackout dates can additionally be managed locally.
type Store struct {
	*sql.DB
	logger *zerolog.Logger
}

// New opens (or creates) the database at path.
func New(path string, logger *zerolog.Logger) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	s := &Store{DB: db, logger: logger}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("create tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("store initialized")
	return s, nil
}

func (s *Store) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS doctors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			specialty TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		// Raw consultation-hours entries; position preserves the order
		// the upstream API delivered them in, which the next-slot
		// resolver depends on.
		`CREATE TABLE IF NOT EXISTS consultation_hours (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			doctor_id INTEGER NOT NULL,
			day TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (doctor_id) REFERENCES doctors(id)
		)`,
		`CREATE TABLE IF NOT EXISTS blackout_dates (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			doctor_id INTEGER NOT NULL,
			date TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (doctor_id, date),
			FOREIGN KEY (doctor_id) REFERENCES doctors(id)
		)`,
		`CREATE TABLE IF NOT EXISTS appointments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			doctor_id INTEGER NOT NULL,
			patient_name TEXT,
			date TEXT NOT NULL,
			time TEXT NOT NULL,
			meet_link TEXT,
			method TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (doctor_id) REFERENCES doctors(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_hours_doctor ON consultation_hours(doctor_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_date ON appointments(date)`,
	}

	for _, q := range queries {
		if _, err := s.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// CreateDoctor inserts a doctor with its consultation hours.
func (s *Store) CreateDoctor(ctx context.Context, d *models.Doctor) error {
	res, err := s.ExecContext(ctx,
		"INSERT INTO doctors (name, specialty) VALUES (?, ?)",
		d.Name, d.Specialty,
	)
	if err != nil {
		return fmt.Errorf("insert doctor: %w", err)
	}

	d.ID, err = res.LastInsertId()
	if err != nil {
		return err
	}

	return s.ReplaceConsultationHours(ctx, d.ID, d.ConsultationHours)
}

// ReplaceConsultationHours overwrites a doctor's weekly schedule.
func (s *Store) ReplaceConsultationHours(ctx context.Context, doctorID int64, entries []models.DaySchedule) error {
	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM consultation_hours WHERE doctor_id = ?", doctorID); err != nil {
		return fmt.Errorf("clear hours: %w", err)
	}

	pos := 0
	for _, e := range entries {
		for _, h := range e.Hours {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO consultation_hours (doctor_id, day, start_time, end_time, position) VALUES (?, ?, ?, ?, ?)",
				doctorID, e.Day, h.StartTime, h.EndTime, pos,
			); err != nil {
				return fmt.Errorf("insert hours: %w", err)
			}
			pos++
		}
		// Entries with no hours still occupy a position so the raw
		// order of day entries survives a round-trip.
		if len(e.Hours) == 0 {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO consultation_hours (doctor_id, day, start_time, end_time, position) VALUES (?, ?, '', '', ?)",
				doctorID, e.Day, pos,
			); err != nil {
				return fmt.Errorf("insert empty day: %w", err)
			}
			pos++
		}
	}

	if _, err := tx.ExecContext(ctx, "UPDATE doctors SET updated_at = CURRENT_TIMESTAMP WHERE id = ?", doctorID); err != nil {
		return err
	}
	return tx.Commit()
}

// GetDoctor loads a doctor with consultation hours and blackout dates.
func (s *Store) GetDoctor(ctx context.Context, id int64) (*models.Doctor, error) {
	var d models.Doctor
	err := s.QueryRowContext(ctx,
		"SELECT id, name, specialty, created_at, updated_at FROM doctors WHERE id = ?", id,
	).Scan(&d.ID, &d.Name, &d.Specialty, &d.CreatedAt, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select doctor: %w", err)
	}

	if d.ConsultationHours, err = s.loadHours(ctx, id); err != nil {
		return nil, err
	}
	if d.UnavailableDates, err = s.ListBlackouts(ctx, id); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) loadHours(ctx context.Context, doctorID int64) ([]models.DaySchedule, error) {
	rows, err := s.QueryContext(ctx,
		"SELECT day, start_time, end_time FROM consultation_hours WHERE doctor_id = ? ORDER BY position", doctorID)
	if err != nil {
		return nil, fmt.Errorf("select hours: %w", err)
	}
	defer rows.Close()

	var entries []models.DaySchedule
	for rows.Next() {
		var day, start, end string
		if err := rows.Scan(&day, &start, &end); err != nil {
			return nil, err
		}

		// Consecutive rows of the same day collapse back into one
		// entry; a repeated day after a gap stays a separate entry.
		if n := len(entries); n > 0 && entries[n-1].Day == day {
			if start != "" {
				entries[n-1].Hours = append(entries[n-1].Hours, models.HourRange{StartTime: start, EndTime: end})
			}
			continue
		}

		e := models.DaySchedule{Day: day}
		if start != "" {
			e.Hours = []models.HourRange{{StartTime: start, EndTime: end}}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListDoctors returns all doctors with their schedules.
func (s *Store) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	rows, err := s.QueryContext(ctx, "SELECT id FROM doctors ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("select doctors: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	doctors := make([]models.Doctor, 0, len(ids))
	for _, id := range ids {
		d, err := s.GetDoctor(ctx, id)
		if err != nil {
			return nil, err
		}
		doctors = append(doctors, *d)
	}
	return doctors, nil
}

// AddBlackout marks a date unavailable for the doctor. Idempotent.
func (s *Store) AddBlackout(ctx context.Context, doctorID int64, date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid blackout date %q: %w", date, err)
	}
	_, err := s.ExecContext(ctx,
		"INSERT OR IGNORE INTO blackout_dates (doctor_id, date) VALUES (?, ?)", doctorID, date)
	if err != nil {
		return fmt.Errorf("insert blackout: %w", err)
	}
	return nil
}

// RemoveBlackout clears a blackout date.
func (s *Store) RemoveBlackout(ctx context.Context, doctorID int64, date string) error {
	res, err := s.ExecContext(ctx,
		"DELETE FROM blackout_dates WHERE doctor_id = ? AND date = ?", doctorID, date)
	if err != nil {
		return fmt.Errorf("delete blackout: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListBlackouts returns the doctor's blackout dates sorted ascending.
func (s *Store) ListBlackouts(ctx context.Context, doctorID int64) ([]string, error) {
	rows, err := s.QueryContext(ctx,
		"SELECT date FROM blackout_dates WHERE doctor_id = ? ORDER BY date", doctorID)
	if err != nil {
		return nil, fmt.Errorf("select blackouts: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// CreateAppointment inserts an appointment. The date is stored in
// normalized "2006-01-02" form; callers normalize upstream formats
// before persisting.
func (s *Store) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	res, err := s.ExecContext(ctx,
		"INSERT INTO appointments (doctor_id, patient_name, date, time, meet_link, method) VALUES (?, ?, ?, ?, ?, ?)",
		a.DoctorID, a.PatientName, a.Date, a.Time, a.MeetLink, a.Method)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	a.ID, err = res.LastInsertId()
	return err
}

// GetAppointment loads one appointment.
func (s *Store) GetAppointment(ctx context.Context, id int64) (*models.Appointment, error) {
	var a models.Appointment
	err := s.QueryRowContext(ctx,
		`SELECT id, doctor_id, patient_name, date, time, meet_link, method, created_at, updated_at
		 FROM appointments WHERE id = ?`, id,
	).Scan(&a.ID, &a.DoctorID, &a.PatientName, &a.Date, &a.Time, &a.MeetLink, &a.Method, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select appointment: %w", err)
	}
	return &a, nil
}

// ListUpcomingVirtual returns virtual appointments whose date falls in
// [from, to], for the meeting watcher.
func (s *Store) ListUpcomingVirtual(ctx context.Context, from, to time.Time) ([]models.Appointment, error) {
	rows, err := s.QueryContext(ctx,
		`SELECT id, doctor_id, patient_name, date, time, meet_link, method, created_at, updated_at
		 FROM appointments
		 WHERE date >= ? AND date <= ? AND (method = ? OR meet_link != '')
		 ORDER BY date, time`,
		from.Format("2006-01-02"), to.Format("2006-01-02"), models.MethodVideo)
	if err != nil {
		return nil, fmt.Errorf("select appointments: %w", err)
	}
	defer rows.Close()

	var apps []models.Appointment
	for rows.Next() {
		var a models.Appointment
		if err := rows.Scan(&a.ID, &a.DoctorID, &a.PatientName, &a.Date, &a.Time,
			&a.MeetLink, &a.Method, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}
