package model

import (
	"time"

	"github.com/google/uuid"
)

// ExternalSourceType is the upstream database flavor external sync can pull
// from.
type ExternalSourceType string

const (
	ExternalSourceMSSQL ExternalSourceType = "mssql"
	ExternalSourcePostgres ExternalSourceType = "postgresql"
)

// ExternalSource is the single credential + field-mapping record external
// sync reads before every pull. The system assumes exactly one row exists,
// mirroring the original's single-tenant credential table.
type ExternalSource struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Type ExternalSourceType `gorm:"type:varchar(20);not null" json:"database_type"`
	Host string `gorm:"type:varchar(255);not null" json:"host"`
	Port int `gorm:"not null" json:"port"`
	User string `gorm:"type:varchar(100);not null" json:"user"`
	Password string `gorm:"type:varchar(255);not null" json:"-"`
	Database string `gorm:"type:varchar(100);not null" json:"database_name"`
	Table string `gorm:"type:varchar(100);not null" json:"table_name"`

	// Field-name mappings on the upstream table (the six mapped // columns). FieldID is also used as the paging cursor column.
	FieldID string `gorm:"type:varchar(100);not null" json:"field_id"`
	FieldEmployeeID string `gorm:"type:varchar(100);not null" json:"field_employeeid"`
	FieldDirection string `gorm:"type:varchar(100);not null" json:"field_direction"`
	FieldShortname string `gorm:"type:varchar(100);not null" json:"field_shortname"`
	FieldSerialNo string `gorm:"type:varchar(100);not null" json:"field_serialno"`
	FieldLogDatetime string `gorm:"type:varchar(100);not null" json:"field_log_datetime"`

	// LastID is the highest upstream id already ingested, resumable paging
	// cursor ("resumable via highest previously-seen id").
	LastID int64 `gorm:"not null;default:0" json:"last_id"`
	CreatedAt time.Time `gorm:"type:timestamptz;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;default:now()" json:"updated_at"`
}

func (ExternalSource) TableName() string { return "external_sources" }
