package meeting

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"medibook/internal/models"
)

// joinLeadTime is how long before the scheduled time the join action
// unlocks. Both screen windows share it.
const joinLeadTime = 10 * time.Minute

// Window is one screen's join-enablement interval around the scheduled
// appointment instant, inclusive on both ends.
type Window struct {
	Name   string
	Before time.Duration
	After  time.Duration
}

// The home-screen widget and the appointments-list screen ship with
// different trailing margins. The divergence is kept as two named
// configurations rather than unified; see DESIGN.md before changing
// either value.
var (
	HomeWindow = Window{Name: "home", Before: joinLeadTime, After: 30 * time.Minute}
	ListWindow = Window{Name: "list", Before: joinLeadTime, After: 20 * time.Minute}
)

// WindowByName resolves a screen name to its window configuration.
func WindowByName(name string) (Window, bool) {
	switch name {
	case HomeWindow.Name:
		return HomeWindow, true
	case ListWindow.Name:
		return ListWindow, true
	}
	return Window{}, false
}

// Evaluator decides whether a virtual appointment's join action is
// currently permitted. It never returns errors across its public
// boundary: anything unparseable reports "not available".
type Evaluator struct {
	loc    *time.Location
	logger zerolog.Logger
}

// NewEvaluator creates an evaluator resolving appointment instants in
// the given location. A nil location means time.Local.
func NewEvaluator(loc *time.Location, logger zerolog.Logger) *Evaluator {
	if loc == nil {
		loc = time.Local
	}
	return &Evaluator{loc: loc, logger: logger}
}

// ParseDate normalizes the two date forms the appointment API emits:
// "DD/MM/YYYY" and "YYYY-MM-DD", detected by separator.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.Contains(s, "/"):
		return time.ParseInLocation("02/01/2006", s, loc)
	case strings.Contains(s, "-"):
		return time.ParseInLocation("2006-01-02", s, loc)
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
}

// Instant resolves the appointment's scheduled wall-clock instant.
func (e *Evaluator) Instant(app *models.Appointment) (time.Time, error) {
	date, err := ParseDate(app.Date, e.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("appointment date: %w", err)
	}

	parts := strings.Split(strings.TrimSpace(app.Time), ":")
	if len(parts) < 2 {
		return time.Time{}, fmt.Errorf("appointment time: invalid format %q", app.Time)
	}
	clock, err := time.Parse("15:04", parts[0]+":"+parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("appointment time: %w", err)
	}

	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), 0, 0, e.loc), nil
}

// Available reports whether now falls within the window around the
// appointment instant, bounds inclusive. Unparseable appointments are
// never available.
func (e *Evaluator) Available(app *models.Appointment, now time.Time, w Window) bool {
	instant, err := e.Instant(app)
	if err != nil {
		e.logger.Warn().Err(err).Int64("appointment_id", app.ID).Msg("meeting availability check failed")
		return false
	}

	opens := instant.Add(-w.Before)
	closes := instant.Add(w.After)
	return !now.Before(opens) && !now.After(closes)
}

// AvailableAt returns when the join action unlocks.
func (e *Evaluator) AvailableAt(app *models.Appointment) (time.Time, error) {
	instant, err := e.Instant(app)
	if err != nil {
		return time.Time{}, err
	}
	return instant.Add(-joinLeadTime), nil
}

// Countdown renders the "joinable in ..." text for an appointment.
// Once now reaches the unlock instant it reports "Now"; before that the
// remaining time TO THE APPOINTMENT is humanized, which is the wording
// booking screens have always shown. Unparseable appointments yield an
// empty string.
func (e *Evaluator) Countdown(app *models.Appointment, now time.Time) string {
	instant, err := e.Instant(app)
	if err != nil {
		e.logger.Warn().Err(err).Int64("appointment_id", app.ID).Msg("meeting countdown failed")
		return ""
	}

	if !now.Before(instant.Add(-joinLeadTime)) {
		return "Now"
	}
	return humanizeUntil(instant.Sub(now))
}
