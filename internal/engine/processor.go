package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/punchline/attendance/internal/model"
	"github.com/punchline/attendance/internal/repository"
)

// Processor is the attendance derivation engine's driver: it consumes
// "B minus C" in ascending time order, resolves each punch to a shift
// instance, and mutates the day-keyed attendance aggregate.
type Processor struct {
	punches *repository.PunchRepository
	attendances *repository.AttendanceRepository
	caches *Caches
	batchSize int
}

func NewProcessor(punches *repository.PunchRepository, attendances *repository.AttendanceRepository, caches *Caches, batchSize int) *Processor {
	if batchSize <= 0 {
		batchSize = 5000
	}
	return &Processor{punches: punches, attendances: attendances, caches: caches, batchSize: batchSize}
}

// BatchResult is the processed/skipped/failed tally logged for every batch.
type BatchResult struct {
	Processed int
	Skipped int
	Failed int
}

// Run drives the full "B minus C" stream starting after afterID, advancing
// the processed-cursor in batches. It returns the id to resume from on the
// next tick.
func (p *Processor) Run(ctx context.Context, afterID int64) (int64, BatchResult, error) {
	var total BatchResult
	cursor := afterID

	for {
		if err := ctx.Err(); err != nil {
			return cursor, total, err
		}

		batch, err := p.punches.ListUnprocessed(ctx, cursor, p.batchSize)
		if err != nil {
			return cursor, total, fmt.Errorf("list unprocessed punches: %w", err)
		}
		if len(batch) == 0 {
			return cursor, total, nil
		}

		result, toMark, lastID := p.runBatch(ctx, batch)
		total.Processed += result.Processed
		total.Skipped += result.Skipped
		total.Failed += result.Failed

		if err := p.punches.MarkProcessed(ctx, toMark); err != nil {
			// BulkWriteFailed: the run is partially failed, but already
			// reduced aggregates stand; affected punches remain unmarked
			// and are simply re-observed (and re-reduced idempotently) next
			// run.
			return cursor, total, fmt.Errorf("%w: %v", ErrBulkWriteFailed, err)
		}

		cursor = lastID
		log.Info().
			Int("processed", result.Processed).
			Int("skipped", result.Skipped).
			Int("failed", result.Failed).
			Int64("cursor", cursor).
			Msg("attendance batch complete")

		if len(batch) < p.batchSize {
			return cursor, total, nil
		}
	}
}

func (p *Processor) runBatch(ctx context.Context, batch []model.Punch) (BatchResult, []int64, int64) {
	var result BatchResult
	toMark := make([]int64, 0, len(batch))
	var lastID int64

	for _, punch := range batch {
		lastID = punch.ID
		err := p.ProcessPunch(ctx, punch)
		switch {
		case err == nil:
			result.Processed++
			toMark = append(toMark, punch.ID)
		case skip(err):
			result.Skipped++
		default:
			result.Failed++
			log.Warn().Err(err).Int64("punch_id", punch.ID).Msg("punch processing failed")
		}
	}
	return result, toMark, lastID
}

// ProcessPunch implements steps 1-4: resolve employee, check
// employment window, resolve direction, dispatch.
func (p *Processor) ProcessPunch(ctx context.Context, punch model.Punch) error {
	employee, ok := p.caches.Employees[punch.EmployeeID]
	if !ok {
		return ErrEmployeeUnknown
	}

	punchDate := dateOnly(punch.LogDatetime, p.caches.Timezone)
	if !employee.CoversDate(punchDate) {
		return nil // outside employment window: silent skip, not a failure
	}

	direction, err := ResolveDirection(punch, p.caches)
	if err != nil {
		return err
	}

	existing, err := p.attendances.GetByEmployeeAndDate(ctx, employee.ID, punchDate)
	hasOut := err == nil && existing.LastLogtime != nil

	switch {
	case direction == model.DirectionIn && hasOut:
		return p.handleInAfterOut(ctx, employee, punch)
	case direction == model.DirectionIn && employee.HasAssignedShift():
		return p.handleFixedIn(ctx, employee, punch)
	case direction == model.DirectionIn:
		return p.handleAutoIn(ctx, employee, punch)
	case direction == model.DirectionOut && employee.HasAssignedShift():
		return p.handleFixedOut(ctx, employee, punch)
	case direction == model.DirectionOut:
		return p.handleAutoOut(ctx, employee, punch)
	case direction == model.DirectionBoth:
		return p.handleInOut(ctx, employee, punch)
	default:
		return ErrDirectionUndetermined
	}
}

// --- Fixed-shift IN ---

func (p *Processor) handleFixedIn(ctx context.Context, employee model.Employee, punch model.Punch) error {
	shift, ok := p.shiftForEmployee(employee)
	if !ok {
		return fmt.Errorf("%w: shift %s", ErrInvariantViolation, "missing for employee with assigned shift")
	}

	punchDate := dateOnly(punch.LogDatetime, p.caches.Timezone)
	window := CalculateWindow(shift, punch.LogDatetime, punchDate, p.caches.Timezone)

	if punch.LogDatetime.Before(window.StartWindow) && shift.IsNightShift() {
		prevWindow := CalculateWindow(shift, punch.LogDatetime, punchDate.AddDate(0, 0, -1), p.caches.Timezone)
		if prevWindow.InWindow(punch.LogDatetime) {
			window = prevWindow
		}
	}

	return p.upsertIn(ctx, employee.ID, window, punch, shift.Name)
}

// --- Auto-shift IN ---

func (p *Processor) handleAutoIn(ctx context.Context, employee model.Employee, punch model.Punch) error {
	punchDate := dateOnly(punch.LogDatetime, p.caches.Timezone)

	for _, shift := range p.caches.AutoShiftOrder {
		window := CalculateWindow(shift, punch.LogDatetime, punchDate, p.caches.Timezone)
		if window.InWindow(punch.LogDatetime) {
			return p.upsertIn(ctx, employee.ID, window, punch, shift.Name)
		}
	}
	// No shift matches: success with no-op (WindowUnresolvable).
	return nil
}

// upsertIn applies the fixed-in/auto-in create-or-earlier-update rule
// common to both shift modes.
func (p *Processor) upsertIn(ctx context.Context, employeeID uuid.UUID, window ShiftWindow, punch model.Punch, shiftName string) error {
	return p.attendances.GetOrCreateLocked(ctx, employeeID, window.LogDate, func(a *model.Attendance) error {
		if a.FirstLogtime != nil && !punch.LogDatetime.Before(*a.FirstLogtime) {
			return nil // not an earlier IN: ignore
		}

		t := punch.LogDatetime
		a.FirstLogtime = &t
		a.Shift = shiftName
		a.InDirection = punch.Source
		a.InShortname = punch.DeviceShortname
		a.LateEntry = minutesPtr(maxDuration(t.Sub(window.StartWithGrace), 0))

		if a.LastLogtime == nil {
			a.ShiftStatus = model.StatusMissingPunch
		}
		return nil
	})
}

// --- Fixed-shift OUT ---

func (p *Processor) handleFixedOut(ctx context.Context, employee model.Employee, punch model.Punch) error {
	return p.handleOut(ctx, employee, punch, func(a model.Attendance) bool {
		return a.Shift == p.shiftNameFor(employee)
	})
}

func (p *Processor) shiftNameFor(employee model.Employee) string {
	shift, ok := p.shiftForEmployee(employee)
	if !ok {
		return ""
	}
	return shift.Name
}

// --- Auto-shift OUT ---

func (p *Processor) handleAutoOut(ctx context.Context, employee model.Employee, punch model.Punch) error {
	return p.handleOut(ctx, employee, punch, func(a model.Attendance) bool {
		return a.FirstLogtime != nil
	})
}

// handleOut implements the shared fixed/auto OUT candidate search over
// {punch_date, punch_date-1}: newest date first, accepting the candidate
// whose first_logtime precedes t and whose last_logtime is absent or
// earlier than t.
func (p *Processor) handleOut(ctx context.Context, employee model.Employee, punch model.Punch, eligible func(model.Attendance) bool) error {
	punchDate := dateOnly(punch.LogDatetime, p.caches.Timezone)

	candidates, err := p.attendances.ListCandidatesForFixedOut(ctx, employee.ID, punchDate)
	if err != nil {
		return fmt.Errorf("list out candidates: %w", err)
	}

	for _, c := range candidates {
		if c.FirstLogtime == nil || !eligible(c) {
			continue
		}
		if !c.FirstLogtime.Before(punch.LogDatetime) {
			continue
		}
		if c.LastLogtime != nil && !c.LastLogtime.Before(punch.LogDatetime) {
			continue
		}
		return p.applyOut(ctx, employee.ID, c.LogDate, punch)
	}

	// No candidate: orphan aggregate for punch_date, status MP.
	return p.attendances.GetOrCreateLocked(ctx, employee.ID, punchDate, func(a *model.Attendance) error {
		t := punch.LogDatetime
		a.LastLogtime = &t
		a.OutDirection = punch.Source
		a.OutShortname = punch.DeviceShortname
		if a.FirstLogtime == nil {
			a.ShiftStatus = model.StatusMissingPunch
		}
		return nil
	})
}

// applyOut locks the chosen aggregate row, updates last_logtime and
// recomputes metrics via the window reconstructed at the aggregate's own
// logdate and shift name.
func (p *Processor) applyOut(ctx context.Context, employeeID uuid.UUID, logDate time.Time, punch model.Punch) error {
	return p.attendances.GetOrCreateLocked(ctx, employeeID, logDate, func(a *model.Attendance) error {
		if a.LastLogtime != nil && !punch.LogDatetime.After(*a.LastLogtime) {
			return nil // not a later OUT: ignore
		}
		t := punch.LogDatetime
		a.LastLogtime = &t
		a.OutDirection = punch.Source
		a.OutShortname = punch.DeviceShortname
		p.recomputeMetrics(a)
		return nil
	})
}

// recomputeMetrics reconstructs the window for an aggregate's snapshotted
// shift name and logdate, then applies the metrics engine, forcing MP if
// only one punch is present.
func (p *Processor) recomputeMetrics(a *model.Attendance) {
	if a.FirstLogtime == nil || a.LastLogtime == nil {
		ForceMissingPunch(a)
		return
	}

	shift, ok := p.caches.ShiftsByName[a.Shift]
	if !ok {
		// Orphan aggregate with no resolvable shift: cannot compute
		// tolerances/thresholds, so leave status as missing-punch rather
		// than guess at a window.
		ForceMissingPunch(a)
		return
	}

	window := CalculateWindow(shift, *a.FirstLogtime, a.LogDate, p.caches.Timezone)
	employee := p.caches.Employees[a.EmployeeID]
	weekOffDays := employee.WeeklyOffDays()

	holiday, isHoliday := p.caches.HolidayOn(a.LogDate)
	out := ComputeMetrics(MetricsInput{
		Window: window,
		LogDate: a.LogDate,
		InTime: *a.FirstLogtime,
		OutTime: *a.LastLogtime,
		WeekOffDays: weekOffDays,
		IsHoliday: isHoliday,
		HolidayType: holiday.Type,
	})
	ApplyMetrics(a, out)
}

func (p *Processor) shiftForEmployee(employee model.Employee) (model.Shift, bool) {
	if employee.ShiftID == nil {
		return model.Shift{}, false
	}
	s, ok := p.caches.Shifts[*employee.ShiftID]
	return s, ok
}
