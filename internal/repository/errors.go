package repository

import "errors"

var (
	ErrEmployeeNotFound       = errors.New("employee not found")
	ErrShiftNotFound          = errors.New("shift not found")
	ErrAttendanceNotFound     = errors.New("attendance aggregate not found")
	ErrScheduleNotFound       = errors.New("schedule not found")
	ErrExternalSourceNotFound = errors.New("external source not configured")
)
