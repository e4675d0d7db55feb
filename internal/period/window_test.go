package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthWindow(t *testing.T) {
	tests := []struct {
		date      time.Time
		wantStart time.Time
		wantEnd   time.Time
		name      string
	}{
		{
			name:      "mid month",
			date:      time.Date(2024, 5, 17, 13, 45, 0, 0, time.UTC),
			wantStart: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 5, 31, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name:      "leap february",
			date:      time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 2, 29, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name:      "december",
			date:      time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2023, 12, 31, 23, 59, 59, 999999999, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := MonthWindow(tt.date)
			assert.True(t, tt.wantStart.Equal(w.Start), "start: %v", w.Start)
			assert.True(t, tt.wantEnd.Equal(w.End), "end: %v", w.End)
		})
	}
}

func TestWindow_Overlaps(t *testing.T) {
	w := MonthWindow(time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC))
	day := func(m time.Month, d int) time.Time { return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC) }

	assert.True(t, w.Overlaps(day(3, 1), day(8, 31)))
	assert.True(t, w.Overlaps(day(8, 1), day(12, 31)))
	assert.True(t, w.Overlaps(day(7, 1), w.Start), "lease ending on month start overlaps")
	assert.True(t, w.Overlaps(w.End, day(12, 31)), "lease starting on month end overlaps")
	assert.False(t, w.Overlaps(day(1, 1), day(7, 31)))
	assert.False(t, w.Overlaps(day(9, 1), day(12, 31)))
}

func TestWindow_Contains(t *testing.T) {
	w := MonthWindow(time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC))
	assert.True(t, w.Contains(w.Start))
	assert.True(t, w.Contains(w.End))
	assert.False(t, w.Contains(w.End.Add(time.Nanosecond)))
	assert.False(t, w.Contains(w.Start.Add(-time.Nanosecond)))
	assert.Equal(t, "2024-08", w.Key())
}

func TestParseMonth(t *testing.T) {
	got, err := ParseMonth("2024-06")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseMonth("June 2024")
	assert.Error(t, err)
}

func TestMonthsOfYear(t *testing.T) {
	months := MonthsOfYear(2024)
	require.Len(t, months, 12)
	assert.Equal(t, time.January, months[0].Month())
	assert.Equal(t, time.December, months[11].Month())
	assert.Equal(t, 2024, months[11].Year())
}
