package engine

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/punchline/attendance/internal/model"
)

func TestIsConsecutive(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	assert.True(t, isConsecutive(day, day.AddDate(0, 0, 1)))
	assert.False(t, isConsecutive(day, day.AddDate(0, 0, 2)))
	assert.False(t, isConsecutive(day, day))
}

func TestGroupByEmployee(t *testing.T) {
	emp1, emp2 := uuid.New(), uuid.New()
	rows := []model.Attendance{
		{EmployeeID: emp1, LogDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{EmployeeID: emp2, LogDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{EmployeeID: emp1, LogDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
	}

	grouped := groupByEmployee(rows)

	assert.Len(t, grouped, 2)
	assert.Len(t, grouped[emp1], 2)
	assert.Len(t, grouped[emp2], 1)
}

func TestSortAttendanceByDate(t *testing.T) {
	employeeID := uuid.New()
	d1 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	d3 := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	rows := []model.Attendance{
		{EmployeeID: employeeID, LogDate: d3},
		{EmployeeID: employeeID, LogDate: d1},
		{EmployeeID: employeeID, LogDate: d2},
	}

	sortAttendanceByDate(rows)

	assert.Equal(t, d1, rows[0].LogDate)
	assert.Equal(t, d2, rows[1].LogDate)
	assert.Equal(t, d3, rows[2].LogDate)
}

func TestAWOATriple_RecognizedByCorrectStatusSequence(t *testing.T) {
	d1 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	d3 := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	days := []model.Attendance{
		{LogDate: d1, ShiftStatus: model.StatusAbsent},
		{LogDate: d2, ShiftStatus: model.StatusWeekOff},
		{LogDate: d3, ShiftStatus: model.StatusAbsent},
	}

	assert.True(t, isConsecutive(days[0].LogDate, days[1].LogDate))
	assert.True(t, isConsecutive(days[1].LogDate, days[2].LogDate))
	assert.Equal(t, model.StatusAbsent, days[0].ShiftStatus)
	assert.Equal(t, model.StatusWeekOff, days[1].ShiftStatus)
	assert.Equal(t, model.StatusAbsent, days[2].ShiftStatus)
}
