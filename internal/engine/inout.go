package engine

import (
	"context"

	"github.com/punchline/attendance/internal/model"
)

// handleInOut implements the both-direction punch handler ("inout"):
// the aggregate's candidate date is resolved the same way fixed-in/auto-in
// would resolve it, then a single locked read-modify-write decides whether
// the punch is this day's IN, OUT, or a no-op.
func (p *Processor) handleInOut(ctx context.Context, employee model.Employee, punch model.Punch) error {
	window, shiftName, ok := p.resolveInOutWindow(employee, punch)
	if !ok {
		// Auto-shift match failed: success with no-op, same as auto-in.
		return nil
	}

	return p.attendances.GetOrCreateLocked(ctx, employee.ID, window.LogDate, func(a *model.Attendance) error {
		t := punch.LogDatetime

		switch {
		case a.FirstLogtime == nil || t.Before(*a.FirstLogtime):
			a.FirstLogtime = &t
			a.Shift = shiftName
			a.InDirection = punch.Source
			a.InShortname = punch.DeviceShortname
			a.LateEntry = minutesPtr(maxDuration(t.Sub(window.StartWithGrace), 0))
			if a.LastLogtime == nil {
				a.ShiftStatus = model.StatusMissingPunch
			}

		case t.After(*a.FirstLogtime) && (a.LastLogtime == nil || t.After(*a.LastLogtime)):
			a.LastLogtime = &t
			a.OutDirection = punch.Source
			a.OutShortname = punch.DeviceShortname

		case t.Equal(*a.FirstLogtime):
			a.LastLogtime = nil

		default:
			return nil // neither branch applies: no-op success
		}

		if a.FirstLogtime != nil && a.LastLogtime != nil {
			p.recomputeMetrics(a)
		} else {
			ForceMissingPunch(a)
		}
		return nil
	})
}

// resolveInOutWindow finds the candidate window the way fixed-in (assigned
// shift) or auto-in (first window match) would.
func (p *Processor) resolveInOutWindow(employee model.Employee, punch model.Punch) (ShiftWindow, string, bool) {
	punchDate := dateOnly(punch.LogDatetime, p.caches.Timezone)

	if shift, ok := p.shiftForEmployee(employee); ok {
		window := CalculateWindow(shift, punch.LogDatetime, punchDate, p.caches.Timezone)
		if punch.LogDatetime.Before(window.StartWindow) && shift.IsNightShift() {
			prevWindow := CalculateWindow(shift, punch.LogDatetime, punchDate.AddDate(0, 0, -1), p.caches.Timezone)
			if prevWindow.InWindow(punch.LogDatetime) {
				window = prevWindow
			}
		}
		return window, shift.Name, true
	}

	for _, shift := range p.caches.AutoShiftOrder {
		window := CalculateWindow(shift, punch.LogDatetime, punchDate, p.caches.Timezone)
		if window.InWindow(punch.LogDatetime) {
			return window, shift.Name, true
		}
	}
	return ShiftWindow{}, "", false
}
