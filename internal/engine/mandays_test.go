package engine

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/punchline/attendance/internal/model"
)

func TestSortPunchesByTime(t *testing.T) {
	employeeID := uuid.New()
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	punches := []model.Punch{
		{ID: 3, EmployeeID: employeeID, LogDatetime: base.Add(2 * time.Hour)},
		{ID: 1, EmployeeID: employeeID, LogDatetime: base},
		{ID: 2, EmployeeID: employeeID, LogDatetime: base.Add(1 * time.Hour)},
	}

	sortPunchesByTime(punches)

	assert.Equal(t, int64(1), punches[0].ID)
	assert.Equal(t, int64(2), punches[1].ID)
	assert.Equal(t, int64(3), punches[2].ID)
}

func TestBuildPairs_EvenPunchesNoMissed(t *testing.T) {
	employeeID := uuid.New()
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	key := employeeDayKey{employeeID: employeeID, date: date}
	base := date.Add(9 * time.Hour)
	punches := []model.Punch{
		{ID: 1, EmployeeID: employeeID, LogDatetime: base},
		{ID: 2, EmployeeID: employeeID, LogDatetime: base.Add(4 * time.Hour)},
		{ID: 3, EmployeeID: employeeID, LogDatetime: base.Add(5 * time.Hour)},
		{ID: 4, EmployeeID: employeeID, LogDatetime: base.Add(9 * time.Hour)},
	}

	record, missed := buildPairs(key, punches)

	assert.Nil(t, missed)
	assert.Equal(t, employeeID, record.EmployeeID)
	assert.Equal(t, date, record.LogDate)
	assert.Equal(t, 2, record.PairCount)
	assert.Equal(t, 8, record.TotalHoursWorked)
	assert.Equal(t, 0, record.Pairs[0].SortOrder)
	assert.Equal(t, 240, record.Pairs[0].TotalTimeMinutes)
	assert.Equal(t, 1, record.Pairs[1].SortOrder)
	assert.Equal(t, 240, record.Pairs[1].TotalTimeMinutes)
}

func TestBuildPairs_TrailingUnpairedInBecomesMissed(t *testing.T) {
	employeeID := uuid.New()
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	key := employeeDayKey{employeeID: employeeID, date: date}
	base := date.Add(9 * time.Hour)
	punches := []model.Punch{
		{ID: 1, EmployeeID: employeeID, LogDatetime: base},
		{ID: 2, EmployeeID: employeeID, LogDatetime: base.Add(4 * time.Hour)},
		{ID: 3, EmployeeID: employeeID, LogDatetime: base.Add(8 * time.Hour)},
	}

	record, missed := buildPairs(key, punches)

	assert.Equal(t, 1, record.PairCount)
	if assert.NotNil(t, missed) {
		assert.Equal(t, employeeID, missed.EmployeeID)
		assert.Equal(t, date, missed.LogDate)
		assert.Equal(t, punches[2].LogDatetime, missed.InTime)
	}
}

func TestBuildPairs_CapsAtMaxPairsPerDay(t *testing.T) {
	employeeID := uuid.New()
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	key := employeeDayKey{employeeID: employeeID, date: date}
	base := date.Add(6 * time.Hour)

	var punches []model.Punch
	for i := 0; i < (maxPairsPerDay+2)*2; i++ {
		punches = append(punches, model.Punch{
			ID:          int64(i + 1),
			EmployeeID:  employeeID,
			LogDatetime: base.Add(time.Duration(i) * 10 * time.Minute),
		})
	}

	record, missed := buildPairs(key, punches)

	assert.Nil(t, missed)
	assert.Equal(t, maxPairsPerDay, record.PairCount)
	assert.Len(t, record.Pairs, maxPairsPerDay)
}
