package meeting

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medibook/internal/models"
)

func testEvaluator() *Evaluator {
	return NewEvaluator(time.UTC, zerolog.Nop())
}

func appt(date, clock string) *models.Appointment {
	return &models.Appointment{
		ID:       1,
		Date:     date,
		Time:     clock,
		MeetLink: "https://meet.example.com/abc",
		Method:   models.MethodVideo,
	}
}

func at(h, m, s int) time.Time {
	return time.Date(2025, 3, 14, h, m, s, 0, time.UTC)
}

func TestParseDate_BothFormats(t *testing.T) {
	ymd, err := ParseDate("2025-03-14", time.UTC)
	require.NoError(t, err)

	dmy, err := ParseDate("14/03/2025", time.UTC)
	require.NoError(t, err)

	assert.Equal(t, ymd, dmy)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), ymd)
}

func TestParseDate_Malformed(t *testing.T) {
	for _, s := range []string{"", "14.03.2025", "March 14", "2025/03/14/x", "32/13/2025"} {
		_, err := ParseDate(s, time.UTC)
		assert.Error(t, err, "input %q", s)
	}
}

func TestInstant_FormatsEquivalent(t *testing.T) {
	e := testEvaluator()

	a, err := e.Instant(appt("2025-03-14", "14:00:00"))
	require.NoError(t, err)
	b, err := e.Instant(appt("14/03/2025", "14:00"))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, at(14, 0, 0), a)
}

func TestAvailable_WindowBoundaries(t *testing.T) {
	e := testEvaluator()
	app := appt("2025-03-14", "14:00:00")

	tests := []struct {
		name   string
		window Window
		now    time.Time
		want   bool
	}{
		{"home opens exactly 10 min before", HomeWindow, at(13, 50, 0), true},
		{"home one second before opening", HomeWindow, at(13, 49, 59), false},
		{"home closes exactly 30 min after", HomeWindow, at(14, 30, 0), true},
		{"home one second after closing", HomeWindow, at(14, 30, 1), false},
		{"home at the scheduled instant", HomeWindow, at(14, 0, 0), true},
		{"list opens exactly 10 min before", ListWindow, at(13, 50, 0), true},
		{"list one second before opening", ListWindow, at(13, 49, 59), false},
		{"list closes exactly 20 min after", ListWindow, at(14, 20, 0), true},
		{"list one second after closing", ListWindow, at(14, 20, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Available(app, tt.now, tt.window))
		})
	}
}

func TestAvailable_EquivalentDateFormsAgree(t *testing.T) {
	e := testEvaluator()
	now := at(13, 51, 0)

	ymd := e.Available(appt("2025-03-14", "14:00:00"), now, HomeWindow)
	dmy := e.Available(appt("14/03/2025", "14:00:00"), now, HomeWindow)

	assert.True(t, ymd)
	assert.Equal(t, ymd, dmy)
}

func TestAvailable_FailClosed(t *testing.T) {
	e := testEvaluator()
	now := at(14, 0, 0)

	tests := []struct {
		name string
		app  *models.Appointment
	}{
		{"unparseable date", appt("bogus", "14:00:00")},
		{"empty date", appt("", "14:00:00")},
		{"missing time", appt("2025-03-14", "")},
		{"time without minutes", appt("2025-03-14", "14")},
		{"garbage time", appt("2025-03-14", "2pm")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, e.Available(tt.app, now, HomeWindow))
			assert.Empty(t, e.Countdown(tt.app, now))
		})
	}
}

func TestCountdown(t *testing.T) {
	e := testEvaluator()
	app := appt("2025-03-14", "14:00:00")

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"within the pre-window", at(13, 51, 0), "Now"},
		{"exactly at unlock", at(13, 50, 0), "Now"},
		{"one minute before unlock", at(13, 49, 0), "in 11 mins"},
		{"after the scheduled time", at(14, 5, 0), "Now"},
		{"an hour and a half out", at(12, 30, 0), "in 1 hr 30 mins"},
		{"exactly two hours out", at(12, 0, 0), "in 2 hrs"},
		{"days out", time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC), "in 3 days 4 hrs"},
		{"exact day boundary", time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC), "in 2 days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Countdown(app, tt.now))
		})
	}
}

func TestCountdown_Monotonic(t *testing.T) {
	e := testEvaluator()
	app := appt("2025-03-14", "14:00:00")

	// As now advances toward the appointment the reported remaining
	// duration never grows.
	prev := time.Duration(1<<62 - 1)
	for now := at(9, 0, 0); now.Before(at(13, 50, 0)); now = now.Add(7 * time.Minute) {
		instant, err := e.Instant(app)
		require.NoError(t, err)
		remaining := instant.Sub(now)
		assert.LessOrEqual(t, remaining, prev)
		prev = remaining
	}
	assert.Equal(t, "Now", e.Countdown(app, at(13, 50, 0)))
}

func TestWindowByName(t *testing.T) {
	w, ok := WindowByName("home")
	assert.True(t, ok)
	assert.Equal(t, 30*time.Minute, w.After)

	w, ok = WindowByName("list")
	assert.True(t, ok)
	assert.Equal(t, 20*time.Minute, w.After)

	_, ok = WindowByName("detail")
	assert.False(t, ok)
}
