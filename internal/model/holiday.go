package model

import (
	"time"

	"github.com/google/uuid"
)

// HolidayType distinguishes a paid holiday from a flexi holiday.
type HolidayType string

const (
	HolidayTypePaid HolidayType = "PH"
	HolidayTypeFlexi HolidayType = "FH"
)

// Holiday is a single calendar date -> holiday type mapping (HolidayList).
type Holiday struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	HolidayDate time.Time `gorm:"type:date;not null;uniqueIndex" json:"holiday_date"`
	Name string `gorm:"type:varchar(255);not null" json:"name"`
	Type HolidayType `gorm:"type:varchar(2);not null;default:'PH'" json:"type"`
	CreatedAt time.Time `gorm:"type:timestamptz;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;default:now()" json:"updated_at"`
}

func (Holiday) TableName() string { return "holidays" }
