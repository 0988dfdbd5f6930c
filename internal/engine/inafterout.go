package engine

import (
	"context"
	"fmt"

	"github.com/punchline/attendance/internal/model"
)

// handleInAfterOut implements the two-phase in-after-out reconciliation
// ("Cyclic update"): an IN arrives for a day whose aggregate
// already has a last_logtime. The snapshot/replay shape is carried exactly
// from the original's _handle_in_after_out, generalized to be shift-mode
// agnostic.
func (p *Processor) handleInAfterOut(ctx context.Context, employee model.Employee, punch model.Punch) error {
	punchDate := dateOnly(punch.LogDatetime, p.caches.Timezone)

	existing, err := p.attendances.GetByEmployeeAndDate(ctx, employee.ID, punchDate)
	if err != nil {
		return fmt.Errorf("load existing aggregate for in-after-out: %w", err)
	}
	if existing.LastLogtime == nil {
		// Raced: no longer has an OUT, fall back to a plain IN.
		if employee.HasAssignedShift() {
			return p.handleFixedIn(ctx, employee, punch)
		}
		return p.handleAutoIn(ctx, employee, punch)
	}

	// Phase 1: snapshot L, then process the IN through the normal IN path
	// (it may update first_logtime).
	snapshotLogDate := existing.LogDate
	snapshotLastLogtime := *existing.LastLogtime
	snapshotOutDirection := existing.OutDirection
	snapshotOutShortname := existing.OutShortname

	var phase1Err error
	if employee.HasAssignedShift() {
		phase1Err = p.handleFixedIn(ctx, employee, punch)
	} else {
		phase1Err = p.handleAutoIn(ctx, employee, punch)
	}
	if phase1Err != nil {
		return phase1Err
	}

	// Phase 2: clear OUT-derived fields on the (possibly re-keyed)
	// aggregate and force MP, then replay a synthetic OUT at L so the
	// latest OUT still wins even though an earlier IN arrived late.
	if err := p.attendances.GetOrCreateLocked(ctx, employee.ID, snapshotLogDate, func(a *model.Attendance) error {
		a.LastLogtime = nil
		ForceMissingPunch(a)
		return nil
	}); err != nil {
		return fmt.Errorf("clear out-derived fields: %w", err)
	}

	syntheticOut := model.Punch{
		EmployeeID: employee.ID,
		LogDatetime: snapshotLastLogtime,
		Source: snapshotOutDirection,
		DeviceShortname: snapshotOutShortname,
	}
	if syntheticOut.Source == "" {
		syntheticOut.Source = model.PunchSourceDevice
	}

	if employee.HasAssignedShift() {
		return p.handleFixedOut(ctx, employee, syntheticOut)
	}
	return p.handleAutoOut(ctx, employee, syntheticOut)
}
