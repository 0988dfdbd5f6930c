package model

// UnifyCursor is the singleton resume point for folding DeviceLog/ManualLog
// rows into the unified Punch view ("unify-logs" tick step). Two
// columns because the two source tables are independent append-only
// streams with their own id sequences.
type UnifyCursor struct {
	ID int `gorm:"primaryKey;autoIncrement:false;default:1" json:"id"`
	LastDeviceLog int64 `gorm:"not null;default:0" json:"last_device_log_id"`
	LastManualLog int64 `gorm:"not null;default:0" json:"last_manual_log_id"`
}

func (UnifyCursor) TableName() string { return "unify_cursor" }
