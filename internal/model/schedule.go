package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TaskType identifies one step of the administrative command surface.
type TaskType string

const (
	TaskTypeSyncLogs TaskType = "sync_logs"
	TaskTypeSyncAllLogs TaskType = "sync_all_logs"
	TaskTypeAbsentees TaskType = "absentees"
	TaskTypeAttendance TaskType = "task"
	TaskTypeMandays TaskType = "mandays"
	TaskTypeCorrectAWOA TaskType = "correct_a_wo_a_pattern"
	TaskTypeRevertAWOA TaskType = "revert_awo_corrections"
)

// TimingType represents a schedule timing type.
type TimingType string

const (
	TimingTypeSeconds TimingType = "seconds"
	TimingTypeMinutes TimingType = "minutes"
	TimingTypeHours TimingType = "hours"
	TimingTypeDaily TimingType = "daily"
	TimingTypeManual TimingType = "manual"
)

// ExecutionStatus represents the status of an execution.
type ExecutionStatus string

const (
	ExecutionStatusRunning ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed ExecutionStatus = "failed"
	ExecutionStatusPartial ExecutionStatus = "partial"
)

// TaskExecutionStatus represents the status of a task execution.
type TaskExecutionStatus string

const (
	TaskExecutionStatusRunning TaskExecutionStatus = "running"
	TaskExecutionStatusCompleted TaskExecutionStatus = "completed"
	TaskExecutionStatusFailed TaskExecutionStatus = "failed"
)

// TriggerType represents how an execution was triggered.
type TriggerType string

const (
	TriggerTypeScheduled TriggerType = "scheduled"
	TriggerTypeManual TriggerType = "manual"
)

// Schedule is an operator-defined cadence that runs its ScheduleTask steps,
// independently of the Runner's fixed tick. Rows are created through the
// `schedule create` command; any number may exist.
type Schedule struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name string `gorm:"type:varchar(255);not null" json:"name"`
	TimingType TimingType `gorm:"type:varchar(20);not null" json:"timing_type"`
	TimingConfig datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"timing_config"`
	IsEnabled bool `gorm:"default:true" json:"is_enabled"`
	LastRunAt *time.Time `gorm:"type:timestamptz" json:"last_run_at,omitempty"`
	NextRunAt *time.Time `gorm:"type:timestamptz" json:"next_run_at,omitempty"`
	CreatedAt time.Time `gorm:"type:timestamptz;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;default:now()" json:"updated_at"`

	Tasks []ScheduleTask `gorm:"foreignKey:ScheduleID" json:"tasks,omitempty"`
}

func (Schedule) TableName() string { return "schedules" }

// ScheduleTask is one ordered step of the tick (sync, unify, sweep, process,
// mandays, correct, revert).
type ScheduleTask struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ScheduleID uuid.UUID `gorm:"type:uuid;not null;index" json:"schedule_id"`
	TaskType TaskType `gorm:"type:varchar(50);not null" json:"task_type"`
	SortOrder int `gorm:"not null;default:0" json:"sort_order"`
	Parameters datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"parameters"`
	IsEnabled bool `gorm:"default:true" json:"is_enabled"`
	CreatedAt time.Time `gorm:"type:timestamptz;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;default:now()" json:"updated_at"`
}

func (ScheduleTask) TableName() string { return "schedule_tasks" }

// ScheduleExecution is one schedule run's audit row: its status, timing, and
// how many of its tasks ran, succeeded, and failed.
type ScheduleExecution struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ScheduleID uuid.UUID `gorm:"type:uuid;not null;index" json:"schedule_id"`
	Status ExecutionStatus `gorm:"type:varchar(20);not null;default:'running'" json:"status"`
	TriggerType TriggerType `gorm:"type:varchar(20);not null;default:'scheduled'" json:"trigger_type"`
	StartedAt *time.Time `gorm:"type:timestamptz" json:"started_at,omitempty"`
	CompletedAt *time.Time `gorm:"type:timestamptz" json:"completed_at,omitempty"`
	ErrorMessage *string `gorm:"type:text" json:"error_message,omitempty"`
	TasksTotal int `gorm:"default:0" json:"tasks_total"`
	TasksSucceeded int `gorm:"default:0" json:"tasks_succeeded"`
	TasksFailed int `gorm:"default:0" json:"tasks_failed"`
	CreatedAt time.Time `gorm:"type:timestamptz;default:now()" json:"created_at"`

	TaskExecutions []ScheduleTaskExecution `gorm:"foreignKey:ExecutionID" json:"task_executions,omitempty"`
	Schedule *Schedule `gorm:"foreignKey:ScheduleID" json:"schedule,omitempty"`
}

func (ScheduleExecution) TableName() string { return "schedule_executions" }

// ScheduleTaskExecution is the per-step record within a tick, carrying the
// task's own tally (processed/skipped/new) as free-form JSON in Result.
type ScheduleTaskExecution struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ExecutionID uuid.UUID `gorm:"type:uuid;not null;index" json:"execution_id"`
	TaskType TaskType `gorm:"type:varchar(50);not null" json:"task_type"`
	SortOrder int `gorm:"not null;default:0" json:"sort_order"`
	Status TaskExecutionStatus `gorm:"type:varchar(20);not null;default:'running'" json:"status"`
	StartedAt *time.Time `gorm:"type:timestamptz" json:"started_at,omitempty"`
	CompletedAt *time.Time `gorm:"type:timestamptz" json:"completed_at,omitempty"`
	ErrorMessage *string `gorm:"type:text" json:"error_message,omitempty"`
	Result datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"result"`
	CreatedAt time.Time `gorm:"type:timestamptz;default:now()" json:"created_at"`
}

func (ScheduleTaskExecution) TableName() string { return "schedule_task_executions" }
