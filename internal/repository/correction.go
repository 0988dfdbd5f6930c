package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/punchline/attendance/internal/model"
)

// CorrectionRepository persists the audit trail the A-WO-A corrector and
// reverter read and write.
type CorrectionRepository struct {
	db *DB
}

func NewCorrectionRepository(db *DB) *CorrectionRepository {
	return &CorrectionRepository{db: db}
}

func (r *CorrectionRepository) Create(ctx context.Context, c *model.AWOCorrection) error {
	return r.db.GORM.WithContext(ctx).Create(c).Error
}

// ListAll returns every recorded correction, oldest first, for the reverter
// pass. A correction row only exists while its flip is still outstanding —
// Delete removes it the moment Reverter confirms the flip no longer holds —
// so the table is already bounded to open corrections and there is no
// cutoff to window it by.

func (r *CorrectionRepository) ListAll(ctx context.Context) ([]model.AWOCorrection, error) {
	var rows []model.AWOCorrection
	err := r.db.GORM.WithContext(ctx).Order("corrected_date ASC").Find(&rows).Error
	return rows, err
}

func (r *CorrectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.GORM.WithContext(ctx).Delete(&model.AWOCorrection{}, "id = ?", id).Error
}

// DeleteForDateRange removes every correction whose corrected date falls in
// [from,to], the reset_attendance recalculation path's audit-trail step: a
// wiped attendance window can't leave stale corrections behind that
// reference middle days no longer reflecting the flip they recorded.
func (r *CorrectionRepository) DeleteForDateRange(ctx context.Context, from, to time.Time) error {
	return r.db.GORM.WithContext(ctx).
		Where("corrected_date BETWEEN ? AND ?", from, to).
		Delete(&model.AWOCorrection{}).Error
}

// ExistsForEmployeeDate reports whether the middle day of a given employee's
// triple was already flipped by a prior corrector run, so the corrector
// doesn't re-flip (and re-audit) a day twice.
func (r *CorrectionRepository) ExistsForEmployeeDate(ctx context.Context, employeeID uuid.UUID, correctedDate time.Time) (bool, error) {
	var count int64
	err := r.db.GORM.WithContext(ctx).Model(&model.AWOCorrection{}).
		Where("employee_id = ? AND corrected_date = ?", employeeID, correctedDate).
		Count(&count).Error
	return count > 0, err
}
