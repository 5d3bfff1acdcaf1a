package slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"medibook/internal/models"
)

func TestNewWeekIndex_MergesDuplicateDays(t *testing.T) {
	ix := NewWeekIndex([]models.DaySchedule{
		{Day: "Monday", Hours: []models.HourRange{{StartTime: "09:00:00", EndTime: "12:00:00"}}},
		{Day: "Tuesday", Hours: []models.HourRange{{StartTime: "10:00:00", EndTime: "11:00:00"}}},
		{Day: "Monday", Hours: []models.HourRange{{StartTime: "14:00:00", EndTime: "17:00:00"}}},
	})

	ranges := ix.RangesOn(time.Monday)
	assert.Len(t, ranges, 2)
	// Concatenated in input order, not merged or deduplicated.
	assert.Equal(t, "09:00:00", ranges[0].Start.String())
	assert.Equal(t, "14:00:00", ranges[1].Start.String())

	assert.True(t, ix.HasDay(time.Tuesday))
	assert.False(t, ix.HasDay(time.Sunday))
	assert.False(t, ix.Empty())
}

func TestNewWeekIndex_SkipsMalformedRanges(t *testing.T) {
	ix := NewWeekIndex([]models.DaySchedule{
		{Day: "Monday", Hours: []models.HourRange{
			{StartTime: "bogus", EndTime: "12:00:00"},
			{StartTime: "09:00:00", EndTime: ""},
			{StartTime: "13:00:00", EndTime: "15:00:00"},
		}},
	})

	// Malformed ranges are skipped silently; the valid one survives.
	ranges := ix.RangesOn(time.Monday)
	assert.Len(t, ranges, 1)
	assert.Equal(t, "13:00:00", ranges[0].Start.String())
}

func TestNewWeekIndex_UnknownDaysInert(t *testing.T) {
	ix := NewWeekIndex([]models.DaySchedule{
		{Day: "monday", Hours: []models.HourRange{{StartTime: "09:00:00", EndTime: "12:00:00"}}},
		{Day: "Funday", Hours: []models.HourRange{{StartTime: "09:00:00", EndTime: "12:00:00"}}},
	})

	for d := time.Sunday; d <= time.Saturday; d++ {
		assert.False(t, ix.HasDay(d), "day %s should have no ranges", d)
	}
	assert.True(t, ix.Empty())
}

func TestNewWeekIndex_Empty(t *testing.T) {
	ix := NewWeekIndex(nil)
	assert.True(t, ix.Empty())
	assert.Nil(t, ix.RangesOn(time.Monday))
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "09:30:00", want: "09:30:00"},
		{in: "09:30", want: "09:30:00"},
		{in: "9:05", want: "09:05:00"},
		{in: "23:59:59", want: "23:59:59"},
		{in: "24:00:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "12", wantErr: true},
		{in: "", wantErr: true},
		{in: "noon", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseTimeOfDay(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		assert.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got.String())
	}
}

func TestTimeOfDay_On(t *testing.T) {
	date := time.Date(2025, 3, 14, 18, 45, 12, 0, time.UTC)
	got := mustTime(t, "09:30:45").On(date)

	// Seconds are zeroed when projecting onto a date.
	assert.Equal(t, time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC), got)
}
