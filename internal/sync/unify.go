package sync

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/punchline/attendance/internal/model"
	"github.com/punchline/attendance/internal/repository"
)

// Unifier folds DeviceLog and ManualLog rows into the unified Punch view
// ("unify-logs"), grounded on sync_all_logs.py's two independent
// per-source copy passes.
type Unifier struct {
	cursor *repository.UnifyCursorRepository
	punches *repository.PunchRepository
}

func NewUnifier(cursor *repository.UnifyCursorRepository, punches *repository.PunchRepository) *Unifier {
	return &Unifier{cursor: cursor, punches: punches}
}

// UnifyResult is the tally requires every unify-logs run to log.
type UnifyResult struct {
	DeviceLogs int
	ManualLogs int
}

const unifyBatchSize = 1000

func (u *Unifier) Run(ctx context.Context) (UnifyResult, error) {
	cursor, err := u.cursor.Get(ctx)
	if err != nil {
		return UnifyResult{}, fmt.Errorf("load unify cursor: %w", err)
	}

	var result UnifyResult

	lastDevice := cursor.LastDeviceLog
	for {
		batch, err := u.punches.ListDeviceLogsSince(ctx, lastDevice, unifyBatchSize)
		if err != nil {
			return result, fmt.Errorf("list device logs: %w", err)
		}
		if len(batch) == 0 {
			break
		}
		for _, l := range batch {
			if err := u.punches.UpsertPunch(ctx, &model.Punch{
				EmployeeID: l.EmployeeID,
				LogDatetime: l.LogDatetime,
				DeviceShortname: l.DeviceShortname,
				DeviceSerial: l.DeviceSerial,
				Source: model.PunchSourceDevice,
			}); err != nil {
				return result, fmt.Errorf("upsert punch from device log %d: %w", l.ID, err)
			}
			result.DeviceLogs++
		}
		lastDevice = batch[len(batch)-1].ID
		if len(batch) < unifyBatchSize {
			break
		}
	}

	lastManual := cursor.LastManualLog
	for {
		batch, err := u.punches.ListManualLogsSince(ctx, lastManual, unifyBatchSize)
		if err != nil {
			return result, fmt.Errorf("list manual logs: %w", err)
		}
		if len(batch) == 0 {
			break
		}
		for _, l := range batch {
			if err := u.punches.UpsertPunch(ctx, &model.Punch{
				EmployeeID: l.EmployeeID,
				LogDatetime: l.LogDatetime,
				DirectionHint: l.Direction,
				Source: model.PunchSourceManual,
			}); err != nil {
				return result, fmt.Errorf("upsert punch from manual log %d: %w", l.ID, err)
			}
			result.ManualLogs++
		}
		lastManual = batch[len(batch)-1].ID
		if len(batch) < unifyBatchSize {
			break
		}
	}

	if err := u.cursor.Advance(ctx, lastDevice, lastManual); err != nil {
		return result, fmt.Errorf("advance unify cursor: %w", err)
	}

	log.Info().Int("device_logs", result.DeviceLogs).Int("manual_logs", result.ManualLogs).Msg("unify-logs complete")
	return result, nil
}
