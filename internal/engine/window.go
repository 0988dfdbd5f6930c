package engine

import (
	"time"

	"github.com/punchline/attendance/internal/model"
)

// ShiftWindow is the concretization of a Shift onto a calendar date.
// Every field is an absolute, tz-aware instant; callers never recompute
// tolerances/graces from raw minutes again once a window exists.
type ShiftWindow struct {
	ShiftName string

	StartTime time.Time
	EndTime time.Time

	StartWindow time.Time
	EndWindow time.Time

	StartWithGrace time.Time
	EndWithGrace time.Time

	OvertimeBeforeStart time.Duration
	OvertimeAfterEnd time.Duration

	AbsentThreshold time.Duration
	HalfDayThreshold time.Duration
	FullDayThreshold time.Duration

	LunchDuration time.Duration
	IncludeLunchBreakInHalfDay bool
	IncludeLunchBreakInFullDay bool

	// LogDate is the date this window's aggregate is keyed on: the
	// shift-start date, not necessarily the punch's calendar date.
	LogDate time.Time
}

const infiniteThreshold = time.Duration(1<<62 - 1)

// minutesOfDay combines a calendar date with a minutes-from-midnight offset
// in loc, matching Shift's int-minutes time-of-day representation.
func minutesOfDay(date time.Time, minutes int, loc *time.Location) time.Time {
	d := date.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc).Add(time.Duration(minutes) * time.Minute)
}

func dateOnly(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// CalculateWindow computes a ShiftWindow for shift s, punch time t, and base
// date d, following 's five-step algorithm. t and d must already carry
// an explicit project-timezone location (loc); a naive (UTC- or
// Local-zoned) input is rejected by type convention elsewhere in the
// codebase — this function only ever receives values that have already
// passed through.In(loc).
func CalculateWindow(s model.Shift, t time.Time, d time.Time, loc *time.Location) ShiftWindow {
	t = t.In(loc)
	effectiveDate := dateOnly(d, loc)

	// Night-shift previous-day heuristic (step 3): a punch just after
	// midnight may belong to the previous calendar day's night shift.
	if s.IsNightShift() && s.StartTime >= 18*60 && minutesSinceMidnight(t) < 8*60 {
		prevDate := effectiveDate.AddDate(0, 0, -1)
		candidateEnd := minutesOfDay(prevDate, s.EndTime, loc).AddDate(0, 0, 1)
		if candidateEnd.After(t) {
			effectiveDate = prevDate
		}
	}

	// Midnight-boundary special case carried from the original: a shift
	// starting exactly at 00:00 claims punches in the last hour of the
	// calendar day for the *next* day's instance, not today's.
	if s.StartTime == 0 && minutesSinceMidnight(t) >= 23*60 {
		effectiveDate = effectiveDate.AddDate(0, 0, 1)
	}

	startTime := minutesOfDay(effectiveDate, s.StartTime, loc)
	endDate := effectiveDate
	if s.IsNightShift() {
		endDate = endDate.AddDate(0, 0, 1)
	}
	endTime := minutesOfDay(endDate, s.EndTime, loc)

	startWindow := startTime.Add(-time.Duration(s.ToleranceBeforeStart) * time.Minute)
	if s.StartTime == 0 {
		startWindow = startTime.Add(-1 * time.Hour)
	}
	endWindow := startTime.Add(time.Duration(s.ToleranceAfterStart) * time.Minute)

	absentThreshold := time.Duration(s.AbsentThreshold) * time.Minute
	fullDayThreshold := time.Duration(s.FullDayThreshold) * time.Minute
	halfDayThreshold := infiniteThreshold
	if s.HalfDayThreshold != nil {
		halfDayThreshold = time.Duration(*s.HalfDayThreshold) * time.Minute
	}

	return ShiftWindow{
		ShiftName: s.Name,
		StartTime: startTime,
		EndTime: endTime,
		StartWindow: startWindow,
		EndWindow: endWindow,
		StartWithGrace: startTime.Add(time.Duration(s.GracePeriodAtStart) * time.Minute),
		EndWithGrace: endTime.Add(-time.Duration(s.GracePeriodAtEnd) * time.Minute),
		OvertimeBeforeStart: time.Duration(s.OvertimeThresholdBeforeStart) * time.Minute,
		OvertimeAfterEnd: time.Duration(s.OvertimeThresholdAfterEnd) * time.Minute,
		AbsentThreshold: absentThreshold,
		HalfDayThreshold: halfDayThreshold,
		FullDayThreshold: fullDayThreshold,
		LunchDuration: time.Duration(s.LunchDuration) * time.Minute,
		IncludeLunchBreakInHalfDay: s.IncludeLunchBreakInHalfDay,
		IncludeLunchBreakInFullDay: s.IncludeLunchBreakInFullDay,
		LogDate: dateOnly(startTime, loc),
	}
}

func minutesSinceMidnight(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// InWindow reports whether t falls within the auto-shift acceptance range
// [start_window, end_window].
func (w ShiftWindow) InWindow(t time.Time) bool {
	return !t.Before(w.StartWindow) && !t.After(w.EndWindow)
}
