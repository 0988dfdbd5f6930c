// Command attendctl is the administrative surface over the attendance
// derivation engine: the scheduler tick steps (external-sync, unify-logs,
// absentees, the attendance processor, mandays, the A-WO-A corrector and
// reverter) each have a directly invokable CLI twin, plus a serve command
// that runs them on the scheduler's own cadence.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/punchline/attendance/internal/config"
	"github.com/punchline/attendance/internal/engine"
	"github.com/punchline/attendance/internal/model"
	"github.com/punchline/attendance/internal/repository"
	"github.com/punchline/attendance/internal/service"
	attsync "github.com/punchline/attendance/internal/sync"
)

// app bundles every repository, cache, and engine component a command
// might need. Built once per invocation by buildApp, called from each
// command's RunE.
type app struct {
	cfg *config.Config
	db *repository.DB

	employees *repository.EmployeeRepository
	shifts *repository.ShiftRepository
	holidays *repository.HolidayRepository
	devices *repository.DeviceConfigRepository
	punches *repository.PunchRepository
	attendances *repository.AttendanceRepository
	mandaysRepo *repository.MandaysRepository
	corrections *repository.CorrectionRepository
	externalSrc *repository.ExternalSourceRepository
	unifyCursor *repository.UnifyCursorRepository
	sequences *repository.SequenceRepository

	caches *engine.Caches

	processor *engine.Processor
	sweeper *engine.Sweeper
	mandays *engine.Mandays
	corrector *engine.Corrector
	reverter *engine.Reverter

	syncer *attsync.Syncer
	unifier *attsync.Unifier

	scheduleRepo *repository.ScheduleRepository
	schedules *service.ScheduleService
	executor *service.SchedulerExecutor
}

func buildApp() (*app, error) {
	cfg := config.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	a := &app{
		cfg: cfg,
		db: db,
		employees: repository.NewEmployeeRepository(db),
		shifts: repository.NewShiftRepository(db),
		holidays: repository.NewHolidayRepository(db),
		devices: repository.NewDeviceConfigRepository(db),
		punches: repository.NewPunchRepository(db),
		attendances: repository.NewAttendanceRepository(db),
		mandaysRepo: repository.NewMandaysRepository(db),
		corrections: repository.NewCorrectionRepository(db),
		externalSrc: repository.NewExternalSourceRepository(db),
		unifyCursor: repository.NewUnifyCursorRepository(db),
		sequences: repository.NewSequenceRepository(db),
	}

	caches, err := engine.LoadCaches(context.Background(), a.employees, a.shifts, a.holidays, a.devices, loc)
	if err != nil {
		return nil, fmt.Errorf("load caches: %w", err)
	}
	a.caches = caches

	a.processor = engine.NewProcessor(a.punches, a.attendances, a.caches, cfg.BatchSize)
	a.sweeper = engine.NewSweeper(a.db, a.caches)
	a.mandays = engine.NewMandays(a.punches, a.mandaysRepo, loc)
	a.corrector = engine.NewCorrector(a.attendances, a.corrections)
	a.reverter = engine.NewReverter(a.attendances, a.corrections)
	a.syncer = attsync.NewSyncer(a.externalSrc, a.punches, cfg.SyncBatchSize)
	a.unifier = attsync.NewUnifier(a.unifyCursor, a.punches)

	a.scheduleRepo = repository.NewScheduleRepository(db)
	a.schedules = service.NewScheduleService(a.scheduleRepo)
	a.executor = service.NewSchedulerExecutor(a.scheduleRepo)
	a.executor.RegisterHandler(model.TaskTypeSyncLogs, service.NewSyncLogsExecutor(a.syncer))
	a.executor.RegisterHandler(model.TaskTypeSyncAllLogs, service.NewSyncAllLogsExecutor(a.unifier))
	a.executor.RegisterHandler(model.TaskTypeAbsentees, service.NewAbsenteesExecutor(a.sweeper))
	a.executor.RegisterHandler(model.TaskTypeAttendance, service.NewAttendanceExecutor(a.processor))
	a.executor.RegisterHandler(model.TaskTypeMandays, service.NewMandaysExecutor(a.mandays))
	a.executor.RegisterHandler(model.TaskTypeCorrectAWOA, service.NewCorrectAWOAExecutor(a.corrector))
	a.executor.RegisterHandler(model.TaskTypeRevertAWOA, service.NewRevertAWOAExecutor(a.reverter))

	return a, nil
}

// schedulerEngine drives operator-defined ad-hoc Schedule rows ("custom
// cadence" extension): it ticks every 30s and runs whichever schedules are
// due, independent of the fixed Runner pipeline.
func (a *app) schedulerEngine() *service.SchedulerEngine {
	return service.NewSchedulerEngine(a.executor, 30*time.Second)
}

func (a *app) runner() *service.Runner {
	return service.NewRunner(service.RunnerDeps{
		Syncer: a.syncer,
		Unifier: a.unifier,
		Sweeper: a.sweeper,
		Processor: a.processor,
		Mandays: a.mandays,
		Corrector: a.corrector,
		Reverter: a.reverter,
		DB: a.db,
		LockPath: a.cfg.SchedulerLockPath,
		SweepDays: a.cfg.SweepDays,
		TickInterval: a.cfg.TickInterval,
		HealthCheckInterval: a.cfg.HealthCheckInterval,
	})
}
