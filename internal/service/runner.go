package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/punchline/attendance/internal/engine"
	"github.com/punchline/attendance/internal/repository"
	attsync "github.com/punchline/attendance/internal/sync"
)

// fileLock is the filesystem-level exclusive lock (O_CREAT|O_EXCL) that
// keeps exactly one scheduler tick running system-wide at a time, across
// process restarts on the same host.
type fileLock struct {
	path string
	file *os.File
}

func newFileLock(path string) *fileLock {
	return &fileLock{path: path}
}

// tryAcquire returns false (no error) if the lock is already held, rather
// than blocking: a tick that can't acquire it simply skips this round.
func (l *fileLock) tryAcquire() (bool, error) {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, err
	}
	fmt.Fprintf(f, "%d\n", os.Getpid())
	l.file = f
	return true, nil
}

func (l *fileLock) release() {
	if l.file == nil {
		return
	}
	l.file.Close()
	os.Remove(l.path)
	l.file = nil
}

// Runner wires the attendance pipeline's tick chain : external-sync →
// unify-logs → absentees → attendance-processor → mandays → A-WO-A
// corrector → reverter. Each step is independently fault-tolerant: a
// failing step is logged and the chain continues to the next one, so one
// broken upstream doesn't starve the rest of the pipeline.
type Runner struct {
	lock *fileLock

	syncer *attsync.Syncer
	unifier *attsync.Unifier
	sweeper *engine.Sweeper
	processor *engine.Processor
	mandays *engine.Mandays
	corrector *engine.Corrector
	reverter *engine.Reverter

	db *repository.DB

	sweepDays int
	tickInterval time.Duration
	healthCheckInterval time.Duration

	mu sync.Mutex
	running bool
	cancel context.CancelFunc
	lastTickAt time.Time
}

type RunnerDeps struct {
	Syncer *attsync.Syncer
	Unifier *attsync.Unifier
	Sweeper *engine.Sweeper
	Processor *engine.Processor
	Mandays *engine.Mandays
	Corrector *engine.Corrector
	Reverter *engine.Reverter
	DB *repository.DB

	LockPath string
	SweepDays int
	TickInterval time.Duration
	HealthCheckInterval time.Duration
}

func NewRunner(deps RunnerDeps) *Runner {
	tickInterval := deps.TickInterval
	if tickInterval <= 0 {
		tickInterval = 60 * time.Second
	}
	healthInterval := deps.HealthCheckInterval
	if healthInterval <= 0 {
		healthInterval = 5 * time.Minute
	}
	return &Runner{
		lock: newFileLock(deps.LockPath),
		syncer: deps.Syncer,
		unifier: deps.Unifier,
		sweeper: deps.Sweeper,
		processor: deps.Processor,
		mandays: deps.Mandays,
		corrector: deps.Corrector,
		reverter: deps.Reverter,
		db: deps.DB,
		sweepDays: deps.SweepDays,
		tickInterval: tickInterval,
		healthCheckInterval: healthInterval,
	}
}

// Start launches the primary tick loop and the health-monitor loop in
// background goroutines. Returns immediately; call Stop to shut down.
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.running = true

	go r.runPrimary(ctx)
	go r.runHealthMonitor(ctx)

	log.Info().Dur("tick_interval", r.tickInterval).Dur("health_check_interval", r.healthCheckInterval).Msg("runner started")
}

func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return
	}
	r.cancel()
	r.running = false
	r.lock.release()
	log.Info().Msg("runner stopped")
}

func (r *Runner) runPrimary(ctx context.Context) {
	ticker := time.NewTicker(r.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

// runHealthMonitor fires every healthCheckInterval and reinstates the
// primary tick if it has gone quiet for more than two tick intervals — the
// "ensure the primary tick exists and has a next-fire time" requirement
// , approximated here by recency of the last recorded tick.
func (r *Runner) runHealthMonitor(ctx context.Context) {
	ticker := time.NewTicker(r.healthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.mu.Lock()
			stale := r.running && !r.lastTickAt.IsZero() && time.Since(r.lastTickAt) > 2*r.tickInterval
			r.mu.Unlock()
			if stale {
				log.Warn().Time("last_tick", r.lastTickAt).Msg("primary tick appears stalled, reinstating")
				go r.runPrimary(ctx)
			}
		}
	}
}

// tick runs one pass of the pipeline chain. max_instances=1 is
// enforced by tryAcquire: an overlapping tick that finds the lock held
// simply skips this round rather than queuing (coalesce=true).
func (r *Runner) tick(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Msg("runner tick panicked")
		}
	}()

	acquired, err := r.lock.tryAcquire()
	if err != nil {
		log.Error().Err(err).Msg("failed to acquire scheduler lock")
		return
	}
	if !acquired {
		log.Debug().Msg("scheduler lock held by another process, skipping tick")
		return
	}
	defer r.lock.release()

	r.mu.Lock()
	r.lastTickAt = time.Now()
	r.mu.Unlock()

	r.runStep(ctx, "external-sync", func() error {
		_, err := r.syncer.Run(ctx)
		return err
	})
	r.runStep(ctx, "unify-logs", func() error {
		_, err := r.unifier.Run(ctx)
		return err
	})
	r.runStep(ctx, "absentees", func() error {
		_, err := r.sweeper.Run(ctx, r.sweepDays)
		return err
	})
	r.runStep(ctx, "attendance-processor", func() error {
		_, _, err := r.processor.Run(ctx, 0)
		return err
	})
	r.runStep(ctx, "mandays", func() error {
		_, err := r.mandays.Run(ctx, 0)
		return err
	})

	from := time.Now().AddDate(0, 0, -r.sweepDays)
	to := time.Now()
	r.runStep(ctx, "a-wo-a-corrector", func() error {
		_, err := r.corrector.Correct(ctx, from, to)
		return err
	})
	r.runStep(ctx, "a-wo-a-reverter", func() error {
		_, err := r.reverter.Revert(ctx)
		return err
	})
}

func (r *Runner) runStep(ctx context.Context, name string, fn func() error) {
	if err := fn(); err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Error().Err(err).Str("step", name).Msg("pipeline step failed")
	}
}

// Bootstrap runs the original's initialize_data one-time sequence on first
// boot in non-local environments: reset_sequences → absentees(400) →
// sync_logs → sync_all_logs → task → correct_a_wo_a_pattern →
// revert_awo_corrections.
func (r *Runner) Bootstrap(ctx context.Context, isLocal bool) error {
	if isLocal {
		log.Debug().Msg("local environment, skipping bootstrap sequence")
		return nil
	}

	log.Info().Msg("running bootstrap sequence")

	seq := repository.NewSequenceRepository(r.db)
	if err := seq.ResetAll(ctx); err != nil {
		return fmt.Errorf("bootstrap reset_sequences: %w", err)
	}
	if _, err := r.sweeper.Run(ctx, 400); err != nil {
		return fmt.Errorf("bootstrap absentees: %w", err)
	}
	if _, err := r.syncer.Run(ctx); err != nil {
		return fmt.Errorf("bootstrap sync_logs: %w", err)
	}
	if _, err := r.unifier.Run(ctx); err != nil {
		return fmt.Errorf("bootstrap sync_all_logs: %w", err)
	}
	if _, _, err := r.processor.Run(ctx, 0); err != nil {
		return fmt.Errorf("bootstrap attendance task: %w", err)
	}

	from := time.Now().AddDate(0, 0, -400)
	to := time.Now()
	if _, err := r.corrector.Correct(ctx, from, to); err != nil {
		return fmt.Errorf("bootstrap correct_a_wo_a_pattern: %w", err)
	}
	if _, err := r.reverter.Revert(ctx); err != nil {
		return fmt.Errorf("bootstrap revert_awo_corrections: %w", err)
	}

	log.Info().Msg("bootstrap sequence complete")
	return nil
}
