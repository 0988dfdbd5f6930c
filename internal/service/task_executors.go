package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/punchline/attendance/internal/engine"
	attsync "github.com/punchline/attendance/internal/sync"
)

// The TaskExecutor adapters below let an operator-defined Schedule (custom
// cadence, full per-run audit trail via ScheduleExecution/ScheduleTaskExecution)
// invoke the same pipeline steps the fixed Runner tick runs on its own
// interval. A deployment with unusual timing needs — e.g. a second mandays
// pass at a specific hour rather than every tick — registers an extra
// Schedule instead of changing the Runner's cadence for everyone.

type taskWindowParams struct {
	Days int `json:"days"`
}

func unmarshalWindow(params json.RawMessage, defaultDays int) int {
	var p taskWindowParams
	if len(params) > 0 {
		_ = json.Unmarshal(params, &p)
	}
	if p.Days <= 0 {
		return defaultDays
	}
	return p.Days
}

// syncLogsExecutor adapts attsync.Syncer to TaskExecutor.
type syncLogsExecutor struct{ syncer *attsync.Syncer }

func NewSyncLogsExecutor(syncer *attsync.Syncer) TaskExecutor { return syncLogsExecutor{syncer} }

func (e syncLogsExecutor) Execute(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	result, err := e.syncer.Run(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(result)
}

// syncAllLogsExecutor adapts attsync.Unifier to TaskExecutor.
type syncAllLogsExecutor struct{ unifier *attsync.Unifier }

func NewSyncAllLogsExecutor(unifier *attsync.Unifier) TaskExecutor { return syncAllLogsExecutor{unifier} }

func (e syncAllLogsExecutor) Execute(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	result, err := e.unifier.Run(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(result)
}

// absenteesExecutor adapts engine.Sweeper to TaskExecutor.
type absenteesExecutor struct{ sweeper *engine.Sweeper }

func NewAbsenteesExecutor(sweeper *engine.Sweeper) TaskExecutor { return absenteesExecutor{sweeper} }

func (e absenteesExecutor) Execute(ctx context.Context, params json.RawMessage) (json.RawMessage, error) {
	days := unmarshalWindow(params, 400)
	result, err := e.sweeper.Run(ctx, days)
	if err != nil {
		return nil, err
	}
	return json.Marshal(result)
}

// attendanceExecutor adapts engine.Processor to TaskExecutor.
type attendanceExecutor struct{ processor *engine.Processor }

func NewAttendanceExecutor(processor *engine.Processor) TaskExecutor {
	return attendanceExecutor{processor}
}

func (e attendanceExecutor) Execute(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	cursor, result, err := e.processor.Run(ctx, 0)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		engine.BatchResult
		Cursor int64 `json:"cursor"`
	}{result, cursor})
}

// mandaysExecutor adapts engine.Mandays to TaskExecutor.
type mandaysExecutor struct{ mandays *engine.Mandays }

func NewMandaysExecutor(mandays *engine.Mandays) TaskExecutor { return mandaysExecutor{mandays} }

func (e mandaysExecutor) Execute(ctx context.Context, params json.RawMessage) (json.RawMessage, error) {
	days := unmarshalWindow(params, 100)
	result, err := e.mandays.Run(ctx, days)
	if err != nil {
		return nil, err
	}
	return json.Marshal(result)
}

// correctAWOAExecutor adapts engine.Corrector to TaskExecutor.
type correctAWOAExecutor struct{ corrector *engine.Corrector }

func NewCorrectAWOAExecutor(corrector *engine.Corrector) TaskExecutor {
	return correctAWOAExecutor{corrector}
}

func (e correctAWOAExecutor) Execute(ctx context.Context, params json.RawMessage) (json.RawMessage, error) {
	days := unmarshalWindow(params, 400)
	to := time.Now()
	from := to.AddDate(0, 0, -days)
	result, err := e.corrector.Correct(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return json.Marshal(result)
}

// revertAWOAExecutor adapts engine.Reverter to TaskExecutor.
type revertAWOAExecutor struct{ reverter *engine.Reverter }

func NewRevertAWOAExecutor(reverter *engine.Reverter) TaskExecutor {
	return revertAWOAExecutor{reverter}
}

func (e revertAWOAExecutor) Execute(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	result, err := e.reverter.Revert(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(result)
}
