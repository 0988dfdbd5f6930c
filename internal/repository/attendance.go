package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/punchline/attendance/internal/model"
)

// AttendanceRepository persists the day-keyed attendance aggregate (component F, the processor's read-modify-write target).
type AttendanceRepository struct {
	db *DB
}

func NewAttendanceRepository(db *DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) Create(ctx context.Context, a *model.Attendance) error {
	return r.db.GORM.WithContext(ctx).Create(a).Error
}

func (r *AttendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID uuid.UUID, logDate time.Time) (*model.Attendance, error) {
	var a model.Attendance
	err := r.db.GORM.WithContext(ctx).
		First(&a, "employee_id = ? AND log_date = ?", employeeID, logDate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendanceNotFound
		}
		return nil, err
	}
	return &a, nil
}

// GetOrCreateLocked fetches (or creates) an employee's attendance row for
// logDate inside a row-lock transaction, hands the locked row to fn, and
// saves the row once fn returns without error. Concurrent processors touching the same employee/day
// serialize on this lock rather than racing a read-modify-write (design
// note: select_for_update equivalent).
func (r *AttendanceRepository) GetOrCreateLocked(ctx context.Context, employeeID uuid.UUID, logDate time.Time, fn func(a *model.Attendance) error) error {
	return r.db.WithRowLock(ctx, func(tx *gorm.DB) error {
		var a model.Attendance
		err := tx.First(&a, "employee_id = ? AND log_date = ?", employeeID, logDate).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			a = model.Attendance{
				EmployeeID: employeeID,
				LogDate: logDate,
				ShiftStatus: model.StatusMissingPunch,
			}
			if err := tx.Create(&a).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		}

		if err := fn(&a); err != nil {
			return err
		}
		return tx.Save(&a).Error
	})
}

// ListCandidatesForFixedOut returns an employee's attendance rows for
// logDate and the day before, the two-day window fixed_out/auto_out pairing
// searches when looking for an open shift to close.
func (r *AttendanceRepository) ListCandidatesForFixedOut(ctx context.Context, employeeID uuid.UUID, logDate time.Time) ([]model.Attendance, error) {
	prevDate := logDate.AddDate(0, 0, -1)
	var rows []model.Attendance
	err := r.db.GORM.WithContext(ctx).
		Where("employee_id = ? AND log_date IN (?, ?)", employeeID, logDate, prevDate).
		Order("log_date DESC").
		Find(&rows).Error
	return rows, err
}

// ListForDateRange returns every attendance row in [from,to], ordered by
// employee then date; the A-WO-A corrector scans its window with it.
func (r *AttendanceRepository) ListForDateRange(ctx context.Context, from, to time.Time) ([]model.Attendance, error) {
	var rows []model.Attendance
	err := r.db.GORM.WithContext(ctx).
		Where("log_date BETWEEN ? AND ?", from, to).
		Order("employee_id ASC, log_date ASC").
		Find(&rows).Error
	return rows, err
}

// DeleteForDateRange removes aggregates in [from,to], the reset_attendance
// recalculation path's first step: clearing prior state before punches in
// that window are replayed through the processor again.
func (r *AttendanceRepository) DeleteForDateRange(ctx context.Context, from, to time.Time) error {
	return r.db.GORM.WithContext(ctx).
		Where("log_date BETWEEN ? AND ?", from, to).
		Delete(&model.Attendance{}).Error
}

// UpdateStatuses bulk-flips shift_status for a set of rows, the A-WO-A
// corrector/reverter's "bulk update at pass end".
func (r *AttendanceRepository) UpdateStatuses(ctx context.Context, ids []uuid.UUID, status model.ShiftStatus) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.GORM.WithContext(ctx).
		Model(&model.Attendance{}).
		Where("id IN ?", ids).
		Update("shift_status", status).Error
}

// ListForEmployeeDateRange returns one employee's attendance rows within a
// window, used by the A-WO-A reverter to inspect a 3-day triple.
func (r *AttendanceRepository) ListForEmployeeDateRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]model.Attendance, error) {
	var rows []model.Attendance
	err := r.db.GORM.WithContext(ctx).
		Where("employee_id = ? AND log_date BETWEEN ? AND ?", employeeID, from, to).
		Order("log_date ASC").
		Find(&rows).Error
	return rows, err
}
