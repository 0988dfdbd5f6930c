package model

import (
	"time"

	"github.com/google/uuid"
)

// PunchSource distinguishes a device-reported punch from a manually entered
// one (Punch Source ∈ {device, manual}).
type PunchSource string

const (
	PunchSourceDevice PunchSource = "device"
	PunchSourceManual PunchSource = "manual"
)

// Direction is the logical punch direction resolved by the direction
// resolver: a closed variant rather than a bare string so dispatch
// in the processor switches on a real type.
type Direction string

const (
	DirectionIn Direction = "in"
	DirectionOut Direction = "out"
	DirectionBoth Direction = "both"
)

// DeviceLog is a raw punch ingested from a biometric device (component A).
// ExternalID is the upstream source row's own id: ingestion keys its upsert
// on it so a sync retry after a partial failure never inserts a duplicate.
type DeviceLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ExternalID int64 `gorm:"not null;uniqueIndex:idx_device_log_external_id" json:"external_id"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index" json:"employee_id"`
	LogDatetime time.Time `gorm:"type:timestamptz;not null;index" json:"log_datetime"`
	DeviceShortname string `gorm:"type:varchar(50);not null" json:"device_shortname"`
	DeviceSerial string `gorm:"type:varchar(50);not null" json:"device_serial"`
	CreatedAt time.Time `gorm:"type:timestamptz;default:now()" json:"created_at"`
}

func (DeviceLog) TableName() string { return "logs" }

// ManualLog is a raw punch entered by an operator, carrying an explicit
// direction rather than a device to resolve one from.
type ManualLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index" json:"employee_id"`
	LogDatetime time.Time `gorm:"type:timestamptz;not null;index" json:"log_datetime"`
	Direction Direction `gorm:"type:varchar(10);not null" json:"direction"`
	CreatedAt time.Time `gorm:"type:timestamptz;default:now()" json:"created_at"`
}

func (ManualLog) TableName() string { return "manual_logs" }

// Punch is the unified view row (component B / AllLogs) merged from
// DeviceLog and ManualLog. Uniqueness key: (employee_id, log_datetime,
// direction_hint, source).
type Punch struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_punch_unify_key" json:"employee_id"`
	LogDatetime time.Time `gorm:"type:timestamptz;not null;uniqueIndex:idx_punch_unify_key" json:"log_datetime"`
	DirectionHint Direction `gorm:"type:varchar(10);not null;uniqueIndex:idx_punch_unify_key" json:"direction_hint"`
	DeviceShortname string `gorm:"type:varchar(50)" json:"device_shortname,omitempty"`
	DeviceSerial string `gorm:"type:varchar(50)" json:"device_serial,omitempty"`
	Source PunchSource `gorm:"type:varchar(10);not null;uniqueIndex:idx_punch_unify_key" json:"source"`
	CreatedAt time.Time `gorm:"type:timestamptz;default:now()" json:"created_at"`
}

func (Punch) TableName() string { return "all_logs" }

// ProcessedCursor is the set of punch ids already reduced into the
// attendance aggregate store (component C). Idempotent: inserting an id
// twice is a no-op.
type ProcessedCursor struct {
	PunchID int64 `gorm:"primaryKey;column:punch_id" json:"punch_id"`
	ProcessedAt time.Time `gorm:"type:timestamptz;default:now()" json:"processed_at"`
}

func (ProcessedCursor) TableName() string { return "processed_cursor" }

// DeviceConfig maps a device identity to the logical direction its punches
// should resolve to.
type DeviceConfig struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Shortname string `gorm:"type:varchar(50);not null;uniqueIndex:idx_device_identity" json:"shortname"`
	Serial string `gorm:"type:varchar(50);not null;uniqueIndex:idx_device_identity" json:"serial"`
	DirectionOfUse Direction `gorm:"type:varchar(10);not null" json:"direction_of_use"`
	CreatedAt time.Time `gorm:"type:timestamptz;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;default:now()" json:"updated_at"`
}

func (DeviceConfig) TableName() string { return "device_configs" }
