package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/punchline/attendance/internal/engine"
	"github.com/punchline/attendance/internal/model"
)

func mustLoc(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	return loc
}

func TestCalculateWindow_DayShift(t *testing.T) {
	loc := mustLoc(t)
	shift := model.Shift{
		Name:                 "General",
		StartTime:            9 * 60,
		EndTime:              18 * 60,
		ToleranceBeforeStart: 15,
		ToleranceAfterStart:  15,
		GracePeriodAtStart:   5,
		GracePeriodAtEnd:     5,
	}
	punchTime := time.Date(2026, 3, 2, 9, 10, 0, 0, loc)
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)

	w := engine.CalculateWindow(shift, punchTime, date, loc)

	assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, loc), w.StartTime)
	assert.Equal(t, time.Date(2026, 3, 2, 18, 0, 0, 0, loc), w.EndTime)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, loc), w.LogDate)
	assert.True(t, w.InWindow(punchTime))
}

func TestCalculateWindow_NightShiftPreviousDayHeuristic(t *testing.T) {
	loc := mustLoc(t)
	shift := model.Shift{
		Name:      "Night",
		StartTime: 22 * 60,
		EndTime:   6 * 60,
	}
	// A punch at 01:00 belongs to the previous day's night shift instance.
	punchTime := time.Date(2026, 3, 2, 1, 0, 0, 0, loc)
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)

	w := engine.CalculateWindow(shift, punchTime, date, loc)

	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, loc), w.LogDate)
	assert.Equal(t, time.Date(2026, 3, 1, 22, 0, 0, 0, loc), w.StartTime)
	assert.Equal(t, time.Date(2026, 3, 2, 6, 0, 0, 0, loc), w.EndTime)
}

func TestShift_IsNightShift(t *testing.T) {
	assert.True(t, (&model.Shift{StartTime: 22 * 60, EndTime: 6 * 60}).IsNightShift())
	assert.True(t, (&model.Shift{StartTime: 9 * 60, EndTime: 9 * 60}).IsNightShift())
	assert.False(t, (&model.Shift{StartTime: 9 * 60, EndTime: 18 * 60}).IsNightShift())
}
