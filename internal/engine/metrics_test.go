package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/punchline/attendance/internal/engine"
	"github.com/punchline/attendance/internal/model"
)

func baseWindow(loc *time.Location) engine.ShiftWindow {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, loc)
	end := time.Date(2026, 3, 2, 18, 0, 0, 0, loc)
	return engine.ShiftWindow{
		StartTime:        start,
		EndTime:          end,
		StartWithGrace:   start,
		EndWithGrace:     end,
		AbsentThreshold:  2 * time.Hour,
		HalfDayThreshold: 5 * time.Hour,
		FullDayThreshold: 8 * time.Hour,
		LogDate:          time.Date(2026, 3, 2, 0, 0, 0, 0, loc),
	}
}

func TestComputeMetrics_HolidayBeatsWeekOff(t *testing.T) {
	loc := mustLoc(t)
	w := baseWindow(loc)
	in := engine.MetricsInput{
		Window:      w,
		LogDate:     w.LogDate,
		InTime:      w.StartTime,
		OutTime:     w.EndTime,
		WeekOffDays: []time.Weekday{w.LogDate.Weekday()},
		IsHoliday:   true,
		HolidayType: model.HolidayTypePaid,
	}

	out := engine.ComputeMetrics(in)

	assert.Equal(t, model.StatusWorkedPaidHol, out.ShiftStatus)
	assert.NotNil(t, out.Overtime)
}

func TestComputeMetrics_FlexiHoliday(t *testing.T) {
	loc := mustLoc(t)
	w := baseWindow(loc)
	in := engine.MetricsInput{
		Window:      w,
		InTime:      w.StartTime,
		OutTime:     w.EndTime,
		IsHoliday:   true,
		HolidayType: model.HolidayTypeFlexi,
	}

	out := engine.ComputeMetrics(in)

	assert.Equal(t, model.StatusWorkedFlexiHol, out.ShiftStatus)
}

func TestComputeMetrics_WeekOffWhenNotHoliday(t *testing.T) {
	loc := mustLoc(t)
	w := baseWindow(loc)
	in := engine.MetricsInput{
		Window:      w,
		LogDate:     w.LogDate,
		InTime:      w.StartTime,
		OutTime:     w.EndTime,
		WeekOffDays: []time.Weekday{w.LogDate.Weekday()},
	}

	out := engine.ComputeMetrics(in)

	assert.Equal(t, model.StatusWorkedWeekOff, out.ShiftStatus)
}

func TestComputeMetrics_WeekOffUsesLogDateNotOutPunchDate(t *testing.T) {
	loc := mustLoc(t)
	// Night shift: LogDate is Monday, but the OUT punch lands after
	// midnight on Tuesday. Week-off classification must key off LogDate,
	// not the OUT punch's own calendar day.
	logDate := time.Date(2026, 3, 2, 0, 0, 0, 0, loc) // Monday
	w := engine.ShiftWindow{
		StartTime:        time.Date(2026, 3, 2, 22, 0, 0, 0, loc),
		EndTime:          time.Date(2026, 3, 3, 6, 0, 0, 0, loc),
		StartWithGrace:   time.Date(2026, 3, 2, 22, 0, 0, 0, loc),
		EndWithGrace:     time.Date(2026, 3, 3, 6, 0, 0, 0, loc),
		AbsentThreshold:  2 * time.Hour,
		HalfDayThreshold: 5 * time.Hour,
		FullDayThreshold: 8 * time.Hour,
		LogDate:          logDate,
	}
	in := engine.MetricsInput{
		Window:      w,
		LogDate:     logDate,
		InTime:      w.StartTime,
		OutTime:     w.EndTime,
		WeekOffDays: []time.Weekday{time.Monday},
	}

	out := engine.ComputeMetrics(in)

	assert.Equal(t, model.StatusWorkedWeekOff, out.ShiftStatus)
}

func TestComputeMetrics_AbsentBelowThreshold(t *testing.T) {
	loc := mustLoc(t)
	w := baseWindow(loc)
	in := engine.MetricsInput{
		Window:  w,
		InTime:  w.StartTime,
		OutTime: w.StartTime.Add(1 * time.Hour),
	}

	out := engine.ComputeMetrics(in)

	assert.Equal(t, model.StatusAbsent, out.ShiftStatus)
}

func TestComputeMetrics_HalfDay(t *testing.T) {
	loc := mustLoc(t)
	w := baseWindow(loc)
	in := engine.MetricsInput{
		Window:  w,
		InTime:  w.StartTime,
		OutTime: w.StartTime.Add(3 * time.Hour),
	}

	out := engine.ComputeMetrics(in)

	assert.Equal(t, model.StatusHalfDay, out.ShiftStatus)
}

func TestComputeMetrics_InsufficientBelowFullDay(t *testing.T) {
	loc := mustLoc(t)
	w := baseWindow(loc)
	in := engine.MetricsInput{
		Window:  w,
		InTime:  w.StartTime,
		OutTime: w.StartTime.Add(6 * time.Hour),
	}

	out := engine.ComputeMetrics(in)

	assert.Equal(t, model.StatusInsufficient, out.ShiftStatus)
}

func TestComputeMetrics_PresentAtFullDay(t *testing.T) {
	loc := mustLoc(t)
	w := baseWindow(loc)
	in := engine.MetricsInput{
		Window:  w,
		InTime:  w.StartTime,
		OutTime: w.EndTime,
	}

	out := engine.ComputeMetrics(in)

	assert.Equal(t, model.StatusPresent, out.ShiftStatus)
}

func TestComputeMetrics_LateEntryAndEarlyExit(t *testing.T) {
	loc := mustLoc(t)
	w := baseWindow(loc)
	in := engine.MetricsInput{
		Window:  w,
		InTime:  w.StartTime.Add(20 * time.Minute),
		OutTime: w.EndTime.Add(-30 * time.Minute),
	}

	out := engine.ComputeMetrics(in)

	assert.NotNil(t, out.LateEntry)
	assert.Equal(t, 20, *out.LateEntry)
	assert.NotNil(t, out.EarlyExit)
	assert.Equal(t, 30, *out.EarlyExit)
}

func TestForceMissingPunch(t *testing.T) {
	a := &model.Attendance{
		TotalTime:   minutesPtrForTest(60),
		EarlyExit:   minutesPtrForTest(10),
		Overtime:    minutesPtrForTest(5),
		ShiftStatus: model.StatusPresent,
	}

	engine.ForceMissingPunch(a)

	assert.Nil(t, a.TotalTime)
	assert.Nil(t, a.EarlyExit)
	assert.Nil(t, a.Overtime)
	assert.Equal(t, model.StatusMissingPunch, a.ShiftStatus)
}

func minutesPtrForTest(m int) *int {
	return &m
}
