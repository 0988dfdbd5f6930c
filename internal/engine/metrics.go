package engine

import (
	"time"

	"github.com/punchline/attendance/internal/model"
)

// MetricsInput bundles everything the metrics engine needs to recompute an
// aggregate's derived fields.
type MetricsInput struct {
	Window ShiftWindow
	LogDate time.Time
	InTime time.Time
	OutTime time.Time
	WeekOffDays []time.Weekday
	IsHoliday bool
	HolidayType model.HolidayType
}

// MetricsOutput is what gets written back onto the Attendance aggregate.
type MetricsOutput struct {
	TotalTime *int
	LateEntry *int
	EarlyExit *int
	Overtime *int
	ShiftStatus model.ShiftStatus
}

func minutesPtr(d time.Duration) *int {
	m := int(d / time.Minute)
	return &m
}

func maxDuration(d, floor time.Duration) time.Duration {
	if d < floor {
		return floor
	}
	return d
}

// ComputeMetrics computes lunch deduction, late entry, early exit, and
// overtime, then resolves the ordered status state machine: holiday beats
// week-off beats the threshold comparisons.
func ComputeMetrics(in MetricsInput) MetricsOutput {
	raw := in.OutTime.Sub(in.InTime)

	deduct := time.Duration(0)
	if in.Window.IncludeLunchBreakInFullDay || in.Window.IncludeLunchBreakInHalfDay {
		deduct = in.Window.LunchDuration
	}
	totalTime := maxDuration(raw-deduct, 0)

	lateEntry := in.InTime.Sub(in.Window.StartWithGrace)
	earlyExit := in.Window.EndWithGrace.Sub(in.OutTime)

	var overtimeBefore, overtimeAfter time.Duration
	overtimeStart := in.Window.StartTime.Add(-in.Window.OvertimeBeforeStart)
	if in.InTime.Before(overtimeStart) {
		overtimeBefore = overtimeStart.Sub(in.InTime)
	}
	overtimeEnd := in.Window.EndTime.Add(in.Window.OvertimeAfterEnd)
	if in.OutTime.After(overtimeEnd) {
		overtimeAfter = in.OutTime.Sub(overtimeEnd)
	}
	calcOvertime := overtimeBefore + overtimeAfter

	out := MetricsOutput{TotalTime: minutesPtr(totalTime)}
	if lateEntry > 0 {
		out.LateEntry = minutesPtr(lateEntry)
	}
	if earlyExit > 0 {
		out.EarlyExit = minutesPtr(earlyExit)
	}

	switch {
	case in.IsHoliday:
		// Holiday beats week-off: a holiday that falls on a weekly off day
		// is reported as a worked holiday, not a worked week-off.
		if in.HolidayType == model.HolidayTypeFlexi {
			out.ShiftStatus = model.StatusWorkedFlexiHol
		} else {
			out.ShiftStatus = model.StatusWorkedPaidHol
		}
		out.Overtime = minutesPtr(raw)

	case weekdayIn(in.LogDate.Weekday(), in.WeekOffDays):
		out.ShiftStatus = model.StatusWorkedWeekOff
		out.Overtime = minutesPtr(raw)

	case totalTime < in.Window.AbsentThreshold:
		out.ShiftStatus = model.StatusAbsent
		if calcOvertime > 0 {
			out.Overtime = minutesPtr(calcOvertime)
		}

	case totalTime < in.Window.HalfDayThreshold:
		out.ShiftStatus = model.StatusHalfDay

	case totalTime < in.Window.FullDayThreshold:
		out.ShiftStatus = model.StatusInsufficient

	default:
		out.ShiftStatus = model.StatusPresent
	}

	return out
}

func weekdayIn(day time.Weekday, days []time.Weekday) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}

// ApplyMetrics writes computed metrics onto an aggregate. It does not look
// at first/last logtime; callers use ForceMissingPunch when only one is set.
func ApplyMetrics(a *model.Attendance, out MetricsOutput) {
	a.TotalTime = out.TotalTime
	a.LateEntry = out.LateEntry
	a.EarlyExit = out.EarlyExit
	a.Overtime = out.Overtime
	a.ShiftStatus = out.ShiftStatus
}

// ForceMissingPunch nulls out derived fields and sets status MP, required
// whenever only one of first/last logtime is set.
func ForceMissingPunch(a *model.Attendance) {
	a.TotalTime = nil
	a.EarlyExit = nil
	a.Overtime = nil
	a.ShiftStatus = model.StatusMissingPunch
}
