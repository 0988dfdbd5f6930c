package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/punchline/attendance/internal/model"
)

var (
	ErrScheduleTaskNotFound      = errors.New("schedule task not found")
	ErrScheduleExecutionNotFound = errors.New("schedule execution not found")
)

// ScheduleRepository handles schedule data access.
type ScheduleRepository struct {
	db *DB
}

// NewScheduleRepository creates a new ScheduleRepository.
func NewScheduleRepository(db *DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Create creates a new schedule.
func (r *ScheduleRepository) Create(ctx context.Context, s *model.Schedule) error {
	return r.db.GORM.WithContext(ctx).Create(s).Error
}

// GetByID retrieves a schedule by ID with tasks preloaded.
func (r *ScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Schedule, error) {
	var s model.Schedule
	err := r.db.GORM.WithContext(ctx).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&s, "id = ?", id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return &s, nil
}

// GetByName retrieves a schedule by name.
func (r *ScheduleRepository) GetByName(ctx context.Context, name string) (*model.Schedule, error) {
	var s model.Schedule
	err := r.db.GORM.WithContext(ctx).
		Where("name = ?", name).
		First(&s).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule by name: %w", err)
	}
	return &s, nil
}

// List retrieves every schedule.
func (r *ScheduleRepository) List(ctx context.Context) ([]model.Schedule, error) {
	var schedules []model.Schedule
	err := r.db.GORM.WithContext(ctx).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Order("name ASC").
		Find(&schedules).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}

// ListEnabled retrieves every enabled schedule.
func (r *ScheduleRepository) ListEnabled(ctx context.Context) ([]model.Schedule, error) {
	var schedules []model.Schedule
	err := r.db.GORM.WithContext(ctx).
		Where("is_enabled = ?", true).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_enabled = ?", true).Order("sort_order ASC")
		}).
		Order("name ASC").
		Find(&schedules).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list enabled schedules: %w", err)
	}
	return schedules, nil
}

// ListDueSchedules retrieves every enabled, non-manual schedule due to run.
func (r *ScheduleRepository) ListDueSchedules(ctx context.Context, now time.Time) ([]model.Schedule, error) {
	var schedules []model.Schedule
	err := r.db.GORM.WithContext(ctx).
		Where("is_enabled = ? AND (next_run_at IS NULL OR next_run_at <= ?)", true, now).
		Where("timing_type != ?", model.TimingTypeManual).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_enabled = ?", true).Order("sort_order ASC")
		}).
		Find(&schedules).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list due schedules: %w", err)
	}
	return schedules, nil
}

// Update saves changes to a schedule.
func (r *ScheduleRepository) Update(ctx context.Context, s *model.Schedule) error {
	return r.db.GORM.WithContext(ctx).Save(s).Error
}

// Delete deletes a schedule and its tasks (cascade).
func (r *ScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.GORM.WithContext(ctx).Delete(&model.Schedule{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete schedule: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

// UpdateNextRunAt updates only the last/next run timestamps.
func (r *ScheduleRepository) UpdateNextRunAt(ctx context.Context, id uuid.UUID, lastRun, nextRun *time.Time) error {
	return r.db.GORM.WithContext(ctx).
		Model(&model.Schedule{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_run_at": lastRun,
			"next_run_at": nextRun,
		}).Error
}

// --- Schedule Task methods ---

func (r *ScheduleRepository) CreateTask(ctx context.Context, task *model.ScheduleTask) error {
	return r.db.GORM.WithContext(ctx).Create(task).Error
}

func (r *ScheduleRepository) GetTaskByID(ctx context.Context, id uuid.UUID) (*model.ScheduleTask, error) {
	var task model.ScheduleTask
	err := r.db.GORM.WithContext(ctx).First(&task, "id = ?", id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrScheduleTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule task: %w", err)
	}
	return &task, nil
}

func (r *ScheduleRepository) ListTasks(ctx context.Context, scheduleID uuid.UUID) ([]model.ScheduleTask, error) {
	var tasks []model.ScheduleTask
	err := r.db.GORM.WithContext(ctx).
		Where("schedule_id = ?", scheduleID).
		Order("sort_order ASC").
		Find(&tasks).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list schedule tasks: %w", err)
	}
	return tasks, nil
}

func (r *ScheduleRepository) UpdateTask(ctx context.Context, task *model.ScheduleTask) error {
	return r.db.GORM.WithContext(ctx).Save(task).Error
}

func (r *ScheduleRepository) DeleteTask(ctx context.Context, id uuid.UUID) error {
	result := r.db.GORM.WithContext(ctx).Delete(&model.ScheduleTask{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete schedule task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrScheduleTaskNotFound
	}
	return nil
}

// --- Execution methods ---

func (r *ScheduleRepository) CreateExecution(ctx context.Context, exec *model.ScheduleExecution) error {
	return r.db.GORM.WithContext(ctx).Create(exec).Error
}

func (r *ScheduleRepository) GetExecutionByID(ctx context.Context, id uuid.UUID) (*model.ScheduleExecution, error) {
	var exec model.ScheduleExecution
	err := r.db.GORM.WithContext(ctx).
		Preload("TaskExecutions", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Schedule").
		First(&exec, "id = ?", id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrScheduleExecutionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule execution: %w", err)
	}
	return &exec, nil
}

func (r *ScheduleRepository) ListExecutions(ctx context.Context, scheduleID uuid.UUID, limit int) ([]model.ScheduleExecution, error) {
	if limit <= 0 {
		limit = 20
	}
	var executions []model.ScheduleExecution
	err := r.db.GORM.WithContext(ctx).
		Where("schedule_id = ?", scheduleID).
		Preload("TaskExecutions", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Order("created_at DESC").
		Limit(limit).
		Find(&executions).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list schedule executions: %w", err)
	}
	return executions, nil
}

func (r *ScheduleRepository) UpdateExecution(ctx context.Context, exec *model.ScheduleExecution) error {
	return r.db.GORM.WithContext(ctx).Save(exec).Error
}

// --- Task Execution methods ---

func (r *ScheduleRepository) CreateTaskExecution(ctx context.Context, te *model.ScheduleTaskExecution) error {
	return r.db.GORM.WithContext(ctx).Create(te).Error
}

func (r *ScheduleRepository) UpdateTaskExecution(ctx context.Context, te *model.ScheduleTaskExecution) error {
	return r.db.GORM.WithContext(ctx).Save(te).Error
}
