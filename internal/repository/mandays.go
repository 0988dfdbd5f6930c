package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/punchline/attendance/internal/model"
)

// MandaysRepository persists the duty-pair view the mandays engine builds
// alongside (not in place of) the first/last-punch attendance aggregate
//.
type MandaysRepository struct {
	db *DB
}

func NewMandaysRepository(db *DB) *MandaysRepository {
	return &MandaysRepository{db: db}
}

// UpsertRecord replaces a record and its pairs in one transaction: deleting
// the prior pairs on conflict is simpler and cheap at this table's size, and
// avoids reconciling individual pair diffs.
func (r *MandaysRepository) UpsertRecord(ctx context.Context, rec *model.MandaysRecord) error {
	return r.db.GORM.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "employee_id"}, {Name: "log_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"pair_count", "total_hours_worked", "updated_at"}),
		}).Create(rec).Error; err != nil {
			return err
		}
		if err := tx.Where("mandays_record_id = ?", rec.ID).Delete(&model.MandaysPair{}).Error; err != nil {
			return err
		}
		if len(rec.Pairs) == 0 {
			return nil
		}
		for i := range rec.Pairs {
			rec.Pairs[i].MandaysRecordID = rec.ID
		}
		return tx.Create(&rec.Pairs).Error
	})
}

func (r *MandaysRepository) CreateMissedPunch(ctx context.Context, m *model.MandaysMissedPunch) error {
	return r.db.GORM.WithContext(ctx).Create(m).Error
}

// GetCursor returns the singleton mandays cursor, creating it at zero if
// absent.
func (r *MandaysRepository) GetCursor(ctx context.Context) (*model.MandaysCursor, error) {
	var c model.MandaysCursor
	err := r.db.GORM.WithContext(ctx).FirstOrCreate(&c, model.MandaysCursor{ID: 1}).Error
	return &c, err
}

func (r *MandaysRepository) AdvanceCursor(ctx context.Context, lastLogID int64) error {
	return r.db.GORM.WithContext(ctx).
		Model(&model.MandaysCursor{}).
		Where("id = ?", 1).
		Update("last_log_id", lastLogID).Error
}

// DeleteForDateRange removes mandays records in [from,to] and, explicitly,
// their pairs; missed-punch rows are not removed. This is the reset_mandays
// recalculation path's first step.
func (r *MandaysRepository) DeleteForDateRange(ctx context.Context, from, to time.Time) error {
	return r.db.GORM.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uuid.UUID
		if err := tx.Model(&model.MandaysRecord{}).
			Where("log_date BETWEEN ? AND ?", from, to).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("mandays_record_id IN ?", ids).Delete(&model.MandaysPair{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&model.MandaysRecord{}).Error
	})
}

// RewindCursor sets LastLogID to the highest punch id strictly before
// cutoff, so a subsequent mandays run replays everything from cutoff
// forward ( "reset to max(id ≤ cutoff_date − 1) when a bounded rewind
// is requested").
func (r *MandaysRepository) RewindCursor(ctx context.Context, cutoff time.Time) error {
	var lastID int64
	err := r.db.GORM.WithContext(ctx).Model(&model.Punch{}).
		Where("log_datetime < ?", cutoff).
		Select("COALESCE(MAX(id), 0)").
		Scan(&lastID).Error
	if err != nil {
		return err
	}
	return r.AdvanceCursor(ctx, lastID)
}

// EarliestRecordDate returns the oldest log_date with a mandays record, used
// by reset_mandays to decide between a trailing-window soft reset and a
// full reset. ok is false when the table is empty.
func (r *MandaysRepository) EarliestRecordDate(ctx context.Context) (earliest time.Time, ok bool, err error) {
	var date *time.Time
	err = r.db.GORM.WithContext(ctx).Model(&model.MandaysRecord{}).
		Select("MIN(log_date)").
		Scan(&date).Error
	if err != nil || date == nil {
		return time.Time{}, false, err
	}
	return *date, true, nil
}

func (r *MandaysRepository) ListForEmployeeDateRange(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]model.MandaysRecord, error) {
	var records []model.MandaysRecord
	err := r.db.GORM.WithContext(ctx).
		Preload("Pairs").
		Where("employee_id = ? AND log_date BETWEEN ? AND ?", employeeID, from, to).
		Order("log_date ASC").
		Find(&records).Error
	return records, err
}
