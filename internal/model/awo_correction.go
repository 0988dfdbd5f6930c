package model

import (
	"time"

	"github.com/google/uuid"
)

// AWOCorrection is the audit row recorded when the corrector flips
// the middle day of an (A, WO, A) triple to A. A recorded row is the only
// way the reverter later knows to check whether the flip should be undone.
type AWOCorrection struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index" json:"employee_id"`
	Day1Date time.Time `gorm:"type:date;not null" json:"day1_date"`
	CorrectedDate time.Time `gorm:"type:date;not null" json:"corrected_date"`
	Day3Date time.Time `gorm:"type:date;not null" json:"day3_date"`
	CreatedAt time.Time `gorm:"type:timestamptz;default:now()" json:"created_at"`
}

func (AWOCorrection) TableName() string { return "awo_corrections" }
