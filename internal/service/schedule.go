package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/punchline/attendance/internal/model"
	"github.com/punchline/attendance/internal/repository"
)

var (
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrScheduleExecutionNotFound = errors.New("schedule execution not found")
	ErrScheduleNameRequired = errors.New("schedule name is required")
	ErrScheduleNameConflict = errors.New("schedule name already exists")
	ErrScheduleTimingRequired = errors.New("timing type is required")
	ErrScheduleInvalidTiming = errors.New("invalid timing type")
	ErrScheduleInvalidTaskType = errors.New("invalid task type")
)

// scheduleRepository defines the interface for schedule data access.
type scheduleRepository interface {
	Create(ctx context.Context, s *model.Schedule) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Schedule, error)
	GetByName(ctx context.Context, name string) (*model.Schedule, error)
	List(ctx context.Context) ([]model.Schedule, error)
	ListEnabled(ctx context.Context) ([]model.Schedule, error)
	ListDueSchedules(ctx context.Context, now time.Time) ([]model.Schedule, error)
	Update(ctx context.Context, s *model.Schedule) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateNextRunAt(ctx context.Context, id uuid.UUID, lastRun, nextRun *time.Time) error

	CreateTask(ctx context.Context, task *model.ScheduleTask) error
	GetTaskByID(ctx context.Context, id uuid.UUID) (*model.ScheduleTask, error)
	ListTasks(ctx context.Context, scheduleID uuid.UUID) ([]model.ScheduleTask, error)
	UpdateTask(ctx context.Context, task *model.ScheduleTask) error
	DeleteTask(ctx context.Context, id uuid.UUID) error

	CreateExecution(ctx context.Context, exec *model.ScheduleExecution) error
	GetExecutionByID(ctx context.Context, id uuid.UUID) (*model.ScheduleExecution, error)
	ListExecutions(ctx context.Context, scheduleID uuid.UUID, limit int) ([]model.ScheduleExecution, error)
	UpdateExecution(ctx context.Context, exec *model.ScheduleExecution) error

	CreateTaskExecution(ctx context.Context, te *model.ScheduleTaskExecution) error
	UpdateTaskExecution(ctx context.Context, te *model.ScheduleTaskExecution) error
}

// CreateScheduleInput represents the input for creating a schedule.
type CreateScheduleInput struct {
	Name string
	TimingType string
	TimingConfig json.RawMessage
	IsEnabled *bool
	Tasks []CreateScheduleTaskInput
}

// UpdateScheduleInput represents the input for updating a schedule.
type UpdateScheduleInput struct {
	TimingType *string
	TimingConfig json.RawMessage
	IsEnabled *bool
}

// CreateScheduleTaskInput represents the input for creating a schedule task.
type CreateScheduleTaskInput struct {
	TaskType string
	SortOrder int
	Parameters json.RawMessage
	IsEnabled *bool
}

// ScheduleService handles business logic for operator-defined schedules and
// their tasks. Schedules are not tenant-scoped; nothing seeds them, and any
// number may be created.
type ScheduleService struct {
	repo scheduleRepository
}

// NewScheduleService creates a new ScheduleService.
func NewScheduleService(repo scheduleRepository) *ScheduleService {
	return &ScheduleService{repo: repo}
}

var validTimingTypes = map[string]bool{
	"seconds": true, "minutes": true, "hours": true, "daily": true, "manual": true,
}

var validTaskTypes = map[model.TaskType]bool{
	model.TaskTypeSyncLogs: true,
	model.TaskTypeSyncAllLogs: true,
	model.TaskTypeAbsentees: true,
	model.TaskTypeAttendance: true,
	model.TaskTypeMandays: true,
	model.TaskTypeCorrectAWOA: true,
	model.TaskTypeRevertAWOA: true,
}

// Create creates a new schedule with optional tasks.
func (s *ScheduleService) Create(ctx context.Context, input CreateScheduleInput) (*model.Schedule, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrScheduleNameRequired
	}

	if input.TimingType == "" {
		return nil, ErrScheduleTimingRequired
	}
	if !validTimingTypes[input.TimingType] {
		return nil, ErrScheduleInvalidTiming
	}

	existing, err := s.repo.GetByName(ctx, name)
	if err == nil && existing != nil {
		return nil, ErrScheduleNameConflict
	}
	if err != nil && !errors.Is(err, repository.ErrScheduleNotFound) {
		return nil, err
	}

	isEnabled := true
	if input.IsEnabled != nil {
		isEnabled = *input.IsEnabled
	}

	timingConfig := datatypes.JSON("{}")
	if len(input.TimingConfig) > 0 {
		timingConfig = datatypes.JSON(input.TimingConfig)
	}

	schedule := &model.Schedule{
		Name: name,
		TimingType: model.TimingType(input.TimingType),
		TimingConfig: timingConfig,
		IsEnabled: isEnabled,
	}

	if isEnabled && input.TimingType != "manual" {
		schedule.NextRunAt = computeNextRun(model.TimingType(input.TimingType), timingConfig, time.Now())
	}

	if err := s.repo.Create(ctx, schedule); err != nil {
		return nil, err
	}

	for _, taskInput := range input.Tasks {
		if !validTaskTypes[model.TaskType(taskInput.TaskType)] {
			continue // skip invalid task types silently
		}
		taskEnabled := true
		if taskInput.IsEnabled != nil {
			taskEnabled = *taskInput.IsEnabled
		}

		taskParams := datatypes.JSON("{}")
		if len(taskInput.Parameters) > 0 {
			taskParams = datatypes.JSON(taskInput.Parameters)
		}

		task := &model.ScheduleTask{
			ScheduleID: schedule.ID,
			TaskType: model.TaskType(taskInput.TaskType),
			SortOrder: taskInput.SortOrder,
			Parameters: taskParams,
			IsEnabled: taskEnabled,
		}
		if err := s.repo.CreateTask(ctx, task); err != nil {
			return nil, err
		}
	}

	return s.repo.GetByID(ctx, schedule.ID)
}

func (s *ScheduleService) GetByID(ctx context.Context, id uuid.UUID) (*model.Schedule, error) {
	schedule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return schedule, nil
}

func (s *ScheduleService) List(ctx context.Context) ([]model.Schedule, error) {
	return s.repo.List(ctx)
}

// Update updates a schedule's timing or enablement.
func (s *ScheduleService) Update(ctx context.Context, id uuid.UUID, input UpdateScheduleInput) (*model.Schedule, error) {
	schedule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}

	if input.TimingType != nil {
		if !validTimingTypes[*input.TimingType] {
			return nil, ErrScheduleInvalidTiming
		}
		schedule.TimingType = model.TimingType(*input.TimingType)
	}

	if len(input.TimingConfig) > 0 {
		schedule.TimingConfig = datatypes.JSON(input.TimingConfig)
	}

	if input.IsEnabled != nil {
		schedule.IsEnabled = *input.IsEnabled
	}

	if schedule.IsEnabled && schedule.TimingType != model.TimingTypeManual {
		schedule.NextRunAt = computeNextRun(schedule.TimingType, schedule.TimingConfig, time.Now())
	} else {
		schedule.NextRunAt = nil
	}

	if err := s.repo.Update(ctx, schedule); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *ScheduleService) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return ErrScheduleNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}

// --- Task Management ---

func (s *ScheduleService) ListTasks(ctx context.Context, scheduleID uuid.UUID) ([]model.ScheduleTask, error) {
	if _, err := s.repo.GetByID(ctx, scheduleID); err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return s.repo.ListTasks(ctx, scheduleID)
}

func (s *ScheduleService) AddTask(ctx context.Context, scheduleID uuid.UUID, input CreateScheduleTaskInput) (*model.ScheduleTask, error) {
	if _, err := s.repo.GetByID(ctx, scheduleID); err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}

	if !validTaskTypes[model.TaskType(input.TaskType)] {
		return nil, ErrScheduleInvalidTaskType
	}

	isEnabled := true
	if input.IsEnabled != nil {
		isEnabled = *input.IsEnabled
	}

	params := datatypes.JSON("{}")
	if len(input.Parameters) > 0 {
		params = datatypes.JSON(input.Parameters)
	}

	task := &model.ScheduleTask{
		ScheduleID: scheduleID,
		TaskType: model.TaskType(input.TaskType),
		SortOrder: input.SortOrder,
		Parameters: params,
		IsEnabled: isEnabled,
	}

	if err := s.repo.CreateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *ScheduleService) RemoveTask(ctx context.Context, scheduleID, taskID uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, scheduleID); err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return ErrScheduleNotFound
		}
		return err
	}

	task, err := s.repo.GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrScheduleTaskNotFound) {
			return ErrScheduleNotFound
		}
		return err
	}

	if task.ScheduleID != scheduleID {
		return ErrScheduleNotFound
	}

	return s.repo.DeleteTask(ctx, taskID)
}

// --- Execution Management ---

func (s *ScheduleService) ListExecutions(ctx context.Context, scheduleID uuid.UUID, limit int) ([]model.ScheduleExecution, error) {
	if _, err := s.repo.GetByID(ctx, scheduleID); err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return s.repo.ListExecutions(ctx, scheduleID, limit)
}

func (s *ScheduleService) GetExecutionByID(ctx context.Context, id uuid.UUID) (*model.ScheduleExecution, error) {
	exec, err := s.repo.GetExecutionByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrScheduleExecutionNotFound) {
			return nil, ErrScheduleExecutionNotFound
		}
		return nil, err
	}
	return exec, nil
}

// --- Timing Computation ---

// computeNextRun calculates the next run time based on timing type and
// config. Weekly/monthly timing types are not supported.
func computeNextRun(timingType model.TimingType, timingConfig datatypes.JSON, now time.Time) *time.Time {
	var config struct {
		Interval int `json:"interval"`
		Time string `json:"time"`
	}
	_ = json.Unmarshal(timingConfig, &config)

	var next time.Time

	switch timingType {
	case model.TimingTypeSeconds:
		interval := config.Interval
		if interval <= 0 {
			interval = 60
		}
		next = now.Add(time.Duration(interval) * time.Second)

	case model.TimingTypeMinutes:
		interval := config.Interval
		if interval <= 0 {
			interval = 5
		}
		next = now.Add(time.Duration(interval) * time.Minute)

	case model.TimingTypeHours:
		interval := config.Interval
		if interval <= 0 {
			interval = 1
		}
		next = now.Add(time.Duration(interval) * time.Hour)

	case model.TimingTypeDaily:
		next = computeNextDailyRun(now, config.Time)

	case model.TimingTypeManual:
		return nil

	default:
		return nil
	}

	return &next
}

func parseTimeOfDay(timeStr string) (int, int) {
	if timeStr == "" {
		return 2, 0 // default 02:00
	}
	n, err := time.Parse("15:04", timeStr)
	if err != nil {
		return 2, 0
	}
	return n.Hour(), n.Minute()
}

func computeNextDailyRun(now time.Time, timeStr string) time.Time {
	h, m := parseTimeOfDay(timeStr)
	next := time.Date(now.Year(), now.Month(), now.Day(), h, m, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
