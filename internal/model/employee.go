package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee is the identity and employment-window record the attendance
// engine resolves every punch against.
type Employee struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PersonnelNumber string `gorm:"type:varchar(50);not null;uniqueIndex" json:"personnel_number"`
	FirstName string `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName string `gorm:"type:varchar(100);not null" json:"last_name"`
	Gender string `gorm:"type:varchar(20)" json:"gender,omitempty"`
	Category string `gorm:"type:varchar(50)" json:"category,omitempty"`
	JobType string `gorm:"type:varchar(50)" json:"job_type,omitempty"`
	JoinDate *time.Time `gorm:"type:date" json:"join_date,omitempty"`
	LeaveDate *time.Time `gorm:"type:date" json:"leave_date,omitempty"`

	// ShiftID nil means the employee has no assigned shift and every punch
	// is resolved through auto-shift matching instead.
	ShiftID *uuid.UUID `gorm:"type:uuid;index" json:"shift_id,omitempty"`

	// FirstWeeklyOff/SecondWeeklyOff are weekday indices, 0=Monday..6=Sunday
	//. Both nil means the employee has no weekly off at all: no default
	// week-off set is substituted, so no date gets week-off status for them.
	FirstWeeklyOff *int `gorm:"column:first_weekly_off" json:"first_weekly_off,omitempty"`
	SecondWeeklyOff *int `gorm:"column:second_weekly_off" json:"second_weekly_off,omitempty"`

	IsActive bool `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"type:timestamptz;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Shift *Shift `gorm:"foreignKey:ShiftID" json:"shift,omitempty"`
}

func (Employee) TableName() string { return "employees" }

// FullName returns first name + last name.
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// CoversDate reports whether date falls within the employee's employment
// window (step 2: punch_date < join_date or > leave_date is skipped).
func (e *Employee) CoversDate(date time.Time) bool {
	if e.JoinDate != nil && date.Before(dateOnly(*e.JoinDate)) {
		return false
	}
	if e.LeaveDate != nil && date.After(dateOnly(*e.LeaveDate)) {
		return false
	}
	return true
}

// HasAssignedShift reports whether the employee uses fixed-shift dispatch
// rather than auto-shift matching.
func (e *Employee) HasAssignedShift() bool {
	return e.ShiftID != nil
}

// WeeklyOffDays returns the employee's own weekly-off weekdays, if any are
// configured.
func (e *Employee) WeeklyOffDays() []time.Weekday {
	days := make([]time.Weekday, 0, 2)
	if e.FirstWeeklyOff != nil {
		days = append(days, indexToWeekday(*e.FirstWeeklyOff))
	}
	if e.SecondWeeklyOff != nil {
		days = append(days, indexToWeekday(*e.SecondWeeklyOff))
	}
	return days
}

// indexToWeekday converts a 0=Monday..6=Sunday index to time.Weekday
// (0=Sunday..6=Saturday).
func indexToWeekday(idx int) time.Weekday {
	return time.Weekday((idx + 1) % 7)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
