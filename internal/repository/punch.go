package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/punchline/attendance/internal/model"
)

// PunchRepository persists raw device/manual logs and maintains the unified
// Punch view plus the processed-punch cursor.
type PunchRepository struct {
	db *DB
}

func NewPunchRepository(db *DB) *PunchRepository {
	return &PunchRepository{db: db}
}

// CreateDeviceLog upserts a raw device punch keyed on the upstream source's
// own row id, so a sync retry after a partial failure (row inserted, cursor
// advance not yet committed) overwrites the same row instead of duplicating
// it. Non-key fields only move forward: a replayed row with an older
// log_datetime than what's stored is a no-op.
func (r *PunchRepository) CreateDeviceLog(ctx context.Context, l *model.DeviceLog) error {
	return r.db.GORM.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"employee_id": gorm.Expr("CASE WHEN EXCLUDED.log_datetime >= logs.log_datetime THEN EXCLUDED.employee_id ELSE logs.employee_id END"),
			"log_datetime": gorm.Expr("CASE WHEN EXCLUDED.log_datetime >= logs.log_datetime THEN EXCLUDED.log_datetime ELSE logs.log_datetime END"),
			"device_shortname": gorm.Expr("CASE WHEN EXCLUDED.log_datetime >= logs.log_datetime THEN EXCLUDED.device_shortname ELSE logs.device_shortname END"),
			"device_serial": gorm.Expr("CASE WHEN EXCLUDED.log_datetime >= logs.log_datetime THEN EXCLUDED.device_serial ELSE logs.device_serial END"),
		}),
	}).Create(l).Error
}

func (r *PunchRepository) CreateManualLog(ctx context.Context, l *model.ManualLog) error {
	return r.db.GORM.WithContext(ctx).Create(l).Error
}

// ListDeviceLogsSince returns raw device punches with id greater than
// afterID, feeding the unify-logs step that folds them into the unified
// Punch view.
func (r *PunchRepository) ListDeviceLogsSince(ctx context.Context, afterID int64, limit int) ([]model.DeviceLog, error) {
	var logs []model.DeviceLog
	err := r.db.GORM.WithContext(ctx).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// ListManualLogsSince mirrors ListDeviceLogsSince for operator-entered
// punches.
func (r *PunchRepository) ListManualLogsSince(ctx context.Context, afterID int64, limit int) ([]model.ManualLog, error) {
	var logs []model.ManualLog
	err := r.db.GORM.WithContext(ctx).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// UpsertPunch mirrors copy_logs_to_all_logs/copy_manual_logs_to_all_logs: the
// unified view row is keyed on (employee_id, log_datetime, direction_hint,
// source) and overwritten whenever a device or manual log lands on the same
// key.
func (r *PunchRepository) UpsertPunch(ctx context.Context, p *model.Punch) error {
	return r.db.GORM.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "employee_id"}, {Name: "log_datetime"}, {Name: "direction_hint"}, {Name: "source"}},
		DoUpdates: clause.AssignmentColumns([]string{"device_shortname", "device_serial"}),
	}).Create(p).Error
}

// ListUnprocessed returns the next batch of unified punches with id greater
// than afterID that have no matching processed_cursor row, ordered by
// ascending log_datetime (id breaks ties), so each employee's punches are
// also seen in time order ("B minus C" iterator, ordering).
func (r *PunchRepository) ListUnprocessed(ctx context.Context, afterID int64, limit int) ([]model.Punch, error) {
	var punches []model.Punch
	err := r.db.GORM.WithContext(ctx).
		Where("all_logs.id > ?", afterID).
		Where("NOT EXISTS (SELECT 1 FROM processed_cursor pc WHERE pc.punch_id = all_logs.id)").
		Order("log_datetime ASC, id ASC").
		Limit(limit).
		Find(&punches).Error
	return punches, err
}

// MarkProcessed records punch ids as reduced into the aggregate store.
// Idempotent via ON CONFLICT DO NOTHING so replays are safe.
func (r *PunchRepository) MarkProcessed(ctx context.Context, punchIDs []int64) error {
	if len(punchIDs) == 0 {
		return nil
	}
	rows := make([]model.ProcessedCursor, len(punchIDs))
	for i, id := range punchIDs {
		rows[i] = model.ProcessedCursor{PunchID: id}
	}
	return r.db.GORM.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// ListSince returns unified punches with id greater than afterID, regardless
// of processed_cursor state. The mandays engine tracks its own cursor
// independent of the attendance processor's, so it must see every punch, not
// just ones the attendance processor hasn't yet reduced.
func (r *PunchRepository) ListSince(ctx context.Context, afterID int64, limit int) ([]model.Punch, error) {
	var punches []model.Punch
	err := r.db.GORM.WithContext(ctx).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&punches).Error
	return punches, err
}

// RemoveProcessedCursorForRange un-marks every punch in [from,to] as
// processed, the other half of the reset_attendance recalculation path:
// once the attendance rows in that window are deleted, clearing their
// processed_cursor rows lets the next processor run replay them from
// scratch.
func (r *PunchRepository) RemoveProcessedCursorForRange(ctx context.Context, from, to time.Time) error {
	return r.db.GORM.WithContext(ctx).Exec(`
		DELETE FROM processed_cursor
		WHERE punch_id IN (
			SELECT id FROM all_logs WHERE log_datetime BETWEEN ? AND ?
		)
	`, from, to).Error
}

// ListPunchesForEmployeeBetween returns an employee's unified punches in a
// time range, ordered by log_datetime.
func (r *PunchRepository) ListPunchesForEmployeeBetween(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]model.Punch, error) {
	var punches []model.Punch
	err := r.db.GORM.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("log_datetime BETWEEN ? AND ?", from, to).
		Order("log_datetime ASC").
		Find(&punches).Error
	return punches, err
}
