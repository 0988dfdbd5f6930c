package repository

import (
	"context"

	"github.com/punchline/attendance/internal/model"
)

// UnifyCursorRepository persists the singleton resume point for the
// unify-logs tick step.
type UnifyCursorRepository struct {
	db *DB
}

func NewUnifyCursorRepository(db *DB) *UnifyCursorRepository {
	return &UnifyCursorRepository{db: db}
}

func (r *UnifyCursorRepository) Get(ctx context.Context) (*model.UnifyCursor, error) {
	var c model.UnifyCursor
	err := r.db.GORM.WithContext(ctx).FirstOrCreate(&c, model.UnifyCursor{ID: 1}).Error
	return &c, err
}

func (r *UnifyCursorRepository) Advance(ctx context.Context, lastDeviceLog, lastManualLog int64) error {
	return r.db.GORM.WithContext(ctx).
		Model(&model.UnifyCursor{}).
		Where("id = ?", 1).
		Updates(map[string]interface{}{
			"last_device_log_id": lastDeviceLog,
			"last_manual_log_id": lastManualLog,
		}).Error
}
