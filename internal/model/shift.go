package model

import (
	"time"

	"github.com/google/uuid"
)

// Shift is a shift contract. Time-of-day fields are minutes from
// midnight, following the day-plan convention this was adapted from; the
// shift window calculator (internal/engine) is what combines them with a
// calendar date into tz-aware instants — Shift itself carries no time.Time.
type Shift struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name string `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`

	StartTime int `gorm:"not null" json:"start_time"`
	EndTime int `gorm:"not null" json:"end_time"`

	ToleranceBeforeStart int `gorm:"default:0" json:"tolerance_before_start"`
	ToleranceAfterStart int `gorm:"default:0" json:"tolerance_after_start"`
	GracePeriodAtStart int `gorm:"default:0" json:"grace_period_at_start"`
	GracePeriodAtEnd int `gorm:"default:0" json:"grace_period_at_end"`

	OvertimeThresholdBeforeStart int `gorm:"default:0" json:"overtime_threshold_before_start"`
	OvertimeThresholdAfterEnd int `gorm:"default:0" json:"overtime_threshold_after_end"`

	// AbsentThreshold/HalfDayThreshold/FullDayThreshold are minutes; zero
	// value for HalfDayThreshold means "unset" and is treated as +Inf by
	// the shift window calculator (step 5), so it is a pointer.
	AbsentThreshold int `gorm:"default:0" json:"absent_threshold"`
	HalfDayThreshold *int `gorm:"column:half_day_threshold" json:"half_day_threshold,omitempty"`
	FullDayThreshold int `gorm:"default:0" json:"full_day_threshold"`
	LunchDuration int `gorm:"default:0" json:"lunch_duration"`

	IncludeLunchBreakInHalfDay bool `gorm:"default:false" json:"include_lunch_break_in_half_day"`
	IncludeLunchBreakInFullDay bool `gorm:"default:false" json:"include_lunch_break_in_full_day"`

	IsActive bool `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"type:timestamptz;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;default:now()" json:"updated_at"`
}

func (Shift) TableName() string { return "shifts" }

// IsNightShift reports whether the shift crosses midnight: end <= start
// (convenience field is_night_shift).
func (s *Shift) IsNightShift() bool {
	return s.EndTime <= s.StartTime
}
