package model

import (
	"time"

	"github.com/google/uuid"
)

// MandaysRecord holds the duty-pair view of a single employee-day, split
// into up to ten in/out pairs rather than a single first/last punch.
type MandaysRecord struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_mandays_employee_date" json:"employee_id"`
	LogDate time.Time `gorm:"type:date;not null;uniqueIndex:idx_mandays_employee_date" json:"logdate"`
	PairCount int `gorm:"not null;default:0" json:"pair_count"`
	TotalHoursWorked int `gorm:"not null;default:0" json:"total_hours_worked"`
	CreatedAt time.Time `gorm:"type:timestamptz;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;default:now()" json:"updated_at"`

	Pairs []MandaysPair `gorm:"foreignKey:MandaysRecordID" json:"pairs,omitempty"`
}

func (MandaysRecord) TableName() string { return "mandays_records" }

// MandaysPair is one ordered (in, out) duty segment within a MandaysRecord.
type MandaysPair struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	MandaysRecordID uuid.UUID `gorm:"type:uuid;not null;index" json:"mandays_record_id"`
	SortOrder int `gorm:"not null" json:"sort_order"`
	InTime time.Time `gorm:"type:timestamptz;not null" json:"in_time"`
	OutTime time.Time `gorm:"type:timestamptz;not null" json:"out_time"`
	TotalTimeMinutes int `gorm:"not null" json:"total_time_minutes"`
}

func (MandaysPair) TableName() string { return "mandays_pairs" }

// MandaysMissedPunch records a trailing unpaired IN within the mandays
// window — a punch with no matching OUT to close its duty pair.
type MandaysMissedPunch struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index" json:"employee_id"`
	LogDate time.Time `gorm:"type:date;not null" json:"logdate"`
	InTime time.Time `gorm:"type:timestamptz;not null" json:"in_time"`
	CreatedAt time.Time `gorm:"type:timestamptz;default:now()" json:"created_at"`
}

func (MandaysMissedPunch) TableName() string { return "mandays_missed_punches" }

// MandaysCursor advances incrementally so reruns of the mandays engine are
// cheap; LastLogID is the highest Punch id already folded into a
// MandaysRecord ("LastLogIdMandays").
type MandaysCursor struct {
	ID int `gorm:"primaryKey;autoIncrement:false;default:1" json:"id"`
	LastLogID int64 `gorm:"not null;default:0" json:"last_log_id"`
}

func (MandaysCursor) TableName() string { return "mandays_cursor" }
