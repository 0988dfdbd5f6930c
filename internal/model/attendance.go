package model

import (
	"time"

	"github.com/google/uuid"
)

// ShiftStatus is the attendance aggregate's status classification.
type ShiftStatus string

const (
	StatusPresent ShiftStatus = "P"
	StatusHalfDay ShiftStatus = "HD"
	StatusInsufficient ShiftStatus = "IH"
	StatusAbsent ShiftStatus = "A"
	StatusMissingPunch ShiftStatus = "MP"
	StatusWeekOff ShiftStatus = "WO"
	StatusWorkedWeekOff ShiftStatus = "WW"
	StatusPaidHoliday ShiftStatus = "PH"
	StatusFlexiHoliday ShiftStatus = "FH"
	StatusWorkedPaidHol ShiftStatus = "PW"
	StatusWorkedFlexiHol ShiftStatus = "FW"
)

// Attendance is the day-keyed per-employee aggregate (component F).
// Unique key: (employee_id, logdate).
type Attendance struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_employee_date" json:"employee_id"`
	LogDate time.Time `gorm:"type:date;not null;uniqueIndex:idx_attendance_employee_date" json:"logdate"`

	// Shift is a name snapshot, not a foreign key: it must survive shift
	// renames/deletions exactly as the original observed it at punch time.
	Shift string `gorm:"type:varchar(255)" json:"shift"`

	FirstLogtime *time.Time `gorm:"type:timestamptz" json:"first_logtime,omitempty"`
	LastLogtime *time.Time `gorm:"type:timestamptz" json:"last_logtime,omitempty"`

	InDirection PunchSource `gorm:"type:varchar(10)" json:"in_direction,omitempty"`
	OutDirection PunchSource `gorm:"type:varchar(10)" json:"out_direction,omitempty"`
	InShortname string `gorm:"type:varchar(50)" json:"in_shortname,omitempty"`
	OutShortname string `gorm:"type:varchar(50)" json:"out_shortname,omitempty"`

	// TotalTime/LateEntry/EarlyExit/Overtime are minutes; nil means "not
	// applicable" (status MP, or overtime not computed) rather than zero.
	TotalTime *int `gorm:"column:total_time" json:"total_time,omitempty"`
	LateEntry *int `gorm:"column:late_entry" json:"late_entry,omitempty"`
	EarlyExit *int `gorm:"column:early_exit" json:"early_exit,omitempty"`
	Overtime *int `gorm:"column:overtime" json:"overtime,omitempty"`

	ShiftStatus ShiftStatus `gorm:"type:varchar(5);not null;default:'MP'" json:"shift_status"`

	CreatedAt time.Time `gorm:"type:timestamptz;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;default:now()" json:"updated_at"`
}

func (Attendance) TableName() string { return "attendances" }

// HasBothPunches reports whether both first and last logtime are set —
// the precondition for any status other than MP.
func (a *Attendance) HasBothPunches() bool {
	return a.FirstLogtime != nil && a.LastLogtime != nil
}

// HasOnlyOnePunch reports whether exactly one of first/last logtime is set.
func (a *Attendance) HasOnlyOnePunch() bool {
	return (a.FirstLogtime == nil) != (a.LastLogtime == nil)
}
