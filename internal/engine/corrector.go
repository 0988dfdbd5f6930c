package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/punchline/attendance/internal/model"
	"github.com/punchline/attendance/internal/repository"
)

// Corrector implements the A-WO-A post-hoc adjuster : it scans
// chronological per-employee aggregates for an (A, WO, A) triple spanning
// three consecutive days and flips the middle day to A, recording an
// auditable correction row so a later run can tell whether the flip is still
// warranted.
type Corrector struct {
	attendances *repository.AttendanceRepository
	corrections *repository.CorrectionRepository
}

func NewCorrector(attendances *repository.AttendanceRepository, corrections *repository.CorrectionRepository) *Corrector {
	return &Corrector{attendances: attendances, corrections: corrections}
}

// CorrectorResult is the pass tally.
type CorrectorResult struct {
	Corrected int
}

// Correct scans [from,to] for every employee the aggregates cover and flips
// any (A, WO, A) triple's middle day to A.
func (c *Corrector) Correct(ctx context.Context, from, to time.Time) (CorrectorResult, error) {
	rows, err := c.attendances.ListForDateRange(ctx, from, to)
	if err != nil {
		return CorrectorResult{}, fmt.Errorf("list attendance for a-wo-a scan: %w", err)
	}

	byEmployee := groupByEmployee(rows)

	var result CorrectorResult
	var toFlip []uuid.UUID

	for employeeID, days := range byEmployee {
		sortAttendanceByDate(days)

		for i := 0; i+2 < len(days); i++ {
			d1, d2, d3 := days[i], days[i+1], days[i+2]
			if !isConsecutive(d1.LogDate, d2.LogDate) || !isConsecutive(d2.LogDate, d3.LogDate) {
				continue
			}
			if d1.ShiftStatus != model.StatusAbsent || d2.ShiftStatus != model.StatusWeekOff || d3.ShiftStatus != model.StatusAbsent {
				continue
			}

			already, err := c.corrections.ExistsForEmployeeDate(ctx, employeeID, d2.LogDate)
			if err != nil {
				return result, fmt.Errorf("check existing correction: %w", err)
			}
			if already {
				continue
			}

			if err := c.corrections.Create(ctx, &model.AWOCorrection{
				EmployeeID: employeeID,
				Day1Date: d1.LogDate,
				CorrectedDate: d2.LogDate,
				Day3Date: d3.LogDate,
			}); err != nil {
				return result, fmt.Errorf("record a-wo-a correction: %w", err)
			}

			toFlip = append(toFlip, d2.ID)
			result.Corrected++
		}
	}

	if err := c.attendances.UpdateStatuses(ctx, toFlip, model.StatusAbsent); err != nil {
		return result, fmt.Errorf("bulk-flip a-wo-a corrections: %w", err)
	}
	return result, nil
}

// Reverter re-evaluates every outstanding correction and undoes the flip if
// either neighbouring day is no longer A.
type Reverter struct {
	attendances *repository.AttendanceRepository
	corrections *repository.CorrectionRepository
}

func NewReverter(attendances *repository.AttendanceRepository, corrections *repository.CorrectionRepository) *Reverter {
	return &Reverter{attendances: attendances, corrections: corrections}
}

// ReverterResult is the pass tally.
type ReverterResult struct {
	Reverted int
}

func (r *Reverter) Revert(ctx context.Context) (ReverterResult, error) {
	corrections, err := r.corrections.ListAll(ctx)
	if err != nil {
		return ReverterResult{}, fmt.Errorf("list a-wo-a corrections: %w", err)
	}

	var result ReverterResult
	var toFlip []uuid.UUID
	var toDelete []uuid.UUID

	for _, correction := range corrections {
		days, err := r.attendances.ListForEmployeeDateRange(ctx, correction.EmployeeID, correction.Day1Date, correction.Day3Date)
		if err != nil {
			return result, fmt.Errorf("load correction triple: %w", err)
		}

		byDate := make(map[time.Time]model.Attendance, len(days))
		for _, d := range days {
			byDate[d.LogDate] = d
		}

		d1, ok1 := byDate[correction.Day1Date]
		d2, ok2 := byDate[correction.CorrectedDate]
		d3, ok3 := byDate[correction.Day3Date]
		if !ok1 || !ok2 || !ok3 {
			continue // incomplete triple: leave the correction row for a later, fuller run
		}

		if d2.ShiftStatus != model.StatusAbsent {
			continue // already reverted or further modified: nothing to do
		}
		if d1.ShiftStatus == model.StatusAbsent && d3.ShiftStatus == model.StatusAbsent {
			continue // neighbours still both A: correction still warranted
		}

		toFlip = append(toFlip, d2.ID)
		toDelete = append(toDelete, correction.ID)
		result.Reverted++
	}

	if err := r.attendances.UpdateStatuses(ctx, toFlip, model.StatusWeekOff); err != nil {
		return result, fmt.Errorf("bulk-revert a-wo-a corrections: %w", err)
	}
	for _, id := range toDelete {
		if err := r.corrections.Delete(ctx, id); err != nil {
			return result, fmt.Errorf("delete processed correction: %w", err)
		}
	}
	return result, nil
}

func groupByEmployee(rows []model.Attendance) map[uuid.UUID][]model.Attendance {
	out := make(map[uuid.UUID][]model.Attendance)
	for _, r := range rows {
		out[r.EmployeeID] = append(out[r.EmployeeID], r)
	}
	return out
}

func sortAttendanceByDate(rows []model.Attendance) {
	for i := 1; i < len(rows); i++ {
		for j := i; j > 0 && rows[j].LogDate.Before(rows[j-1].LogDate); j-- {
			rows[j], rows[j-1] = rows[j-1], rows[j]
		}
	}
}

func isConsecutive(a, b time.Time) bool {
	return a.AddDate(0, 0, 1).Equal(b)
}
