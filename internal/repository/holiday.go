package repository

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/punchline/attendance/internal/model"
)

// HolidayRepository persists Holiday rows.
type HolidayRepository struct {
	db *DB
}

func NewHolidayRepository(db *DB) *HolidayRepository {
	return &HolidayRepository{db: db}
}

func (r *HolidayRepository) Create(ctx context.Context, h *model.Holiday) error {
	return r.db.GORM.WithContext(ctx).Create(h).Error
}

// UpsertMany inserts a generated holiday calendar. On a date that already
// has a row it refreshes only the name, keeping any type (PH vs FH) an
// operator has since set, so re-seeding a year is idempotent.
func (r *HolidayRepository) UpsertMany(ctx context.Context, holidays []model.Holiday) error {
	if len(holidays) == 0 {
		return nil
	}
	return r.db.GORM.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "holiday_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
	}).Create(&holidays).Error
}

// ListBetween returns every holiday whose date falls within [from, to].
func (r *HolidayRepository) ListBetween(ctx context.Context, from, to time.Time) ([]model.Holiday, error) {
	var holidays []model.Holiday
	err := r.db.GORM.WithContext(ctx).
		Where("holiday_date BETWEEN ? AND ?", from, to).
		Order("holiday_date ASC").
		Find(&holidays).Error
	return holidays, err
}

// ListAll returns every holiday row, used when seeding a fresh in-memory
// cache keyed by date for the whole historical window a run may touch.
func (r *HolidayRepository) ListAll(ctx context.Context) ([]model.Holiday, error) {
	var holidays []model.Holiday
	err := r.db.GORM.WithContext(ctx).Order("holiday_date ASC").Find(&holidays).Error
	return holidays, err
}
