package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medibook/internal/models"
	"medibook/internal/slots"
)

func TestBuildScheduleWorkbook(t *testing.T) {
	doctor := &models.Doctor{
		ID:   1,
		Name: "Dr. Chen",
		ConsultationHours: []models.DaySchedule{
			{Day: "Monday", Hours: []models.HourRange{
				{StartTime: "09:00:00", EndTime: "10:00:00"},
			}},
			{Day: "Wednesday", Hours: []models.HourRange{
				{StartTime: "14:00:00", EndTime: "17:00:00"},
				{StartTime: "bad", EndTime: "17:00:00"},
			}},
		},
		UnavailableDates: []string{"2025-03-17", "2025-04-01"},
	}

	wb, err := BuildScheduleWorkbook(doctor, slots.NewGenerator(0))
	require.NoError(t, err)

	day, err := wb.GetCellValue("Weekly Schedule", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Monday", day)

	count, err := wb.GetCellValue("Weekly Schedule", "D2")
	require.NoError(t, err)
	assert.Equal(t, "2", count)

	// Malformed range renders with zero bookable slots.
	badCount, err := wb.GetCellValue("Weekly Schedule", "D4")
	require.NoError(t, err)
	assert.Equal(t, "0", badCount)

	blackout, err := wb.GetCellValue("Blackout Dates", "A2")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-17", blackout)

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(wb, &buf))
	assert.NotZero(t, buf.Len())
}

func TestBuildScheduleWorkbook_EmptySchedule(t *testing.T) {
	wb, err := BuildScheduleWorkbook(&models.Doctor{ID: 2, Name: "Dr. New"}, slots.NewGenerator(0))
	require.NoError(t, err)

	placeholder, err := wb.GetCellValue("Weekly Schedule", "A2")
	require.NoError(t, err)
	assert.Equal(t, "(no consultation hours)", placeholder)
}
