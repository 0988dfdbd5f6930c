package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/punchline/attendance/internal/engine"
	"github.com/punchline/attendance/internal/model"
	"github.com/punchline/attendance/internal/repository"
	"github.com/punchline/attendance/internal/testutil"
)

func TestCorrector_Correct_FlipsAWOATriple(t *testing.T) {
	db := testutil.SetupTestDB(t)
	attendances := repository.NewAttendanceRepository(db)
	corrections := repository.NewCorrectionRepository(db)
	corrector := engine.NewCorrector(attendances, corrections)

	employeeID := uuid.New()
	d1 := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)
	d3 := d1.AddDate(0, 0, 2)

	ctx := context.Background()
	require.NoError(t, attendances.Create(ctx, &model.Attendance{EmployeeID: employeeID, LogDate: d1, ShiftStatus: model.StatusAbsent}))
	require.NoError(t, attendances.Create(ctx, &model.Attendance{EmployeeID: employeeID, LogDate: d2, ShiftStatus: model.StatusWeekOff}))
	require.NoError(t, attendances.Create(ctx, &model.Attendance{EmployeeID: employeeID, LogDate: d3, ShiftStatus: model.StatusAbsent}))

	result, err := corrector.Correct(ctx, d1, d3)
	require.NoError(t, err)
	require.Equal(t, 1, result.Corrected)

	flipped, err := attendances.GetByEmployeeAndDate(ctx, employeeID, d2)
	require.NoError(t, err)
	require.Equal(t, model.StatusAbsent, flipped.ShiftStatus)

	exists, err := corrections.ExistsForEmployeeDate(ctx, employeeID, d2)
	require.NoError(t, err)
	require.True(t, exists)
}

func TestCorrector_Correct_SkipsAlreadyCorrected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	attendances := repository.NewAttendanceRepository(db)
	corrections := repository.NewCorrectionRepository(db)
	corrector := engine.NewCorrector(attendances, corrections)

	employeeID := uuid.New()
	d1 := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)
	d3 := d1.AddDate(0, 0, 2)

	ctx := context.Background()
	require.NoError(t, attendances.Create(ctx, &model.Attendance{EmployeeID: employeeID, LogDate: d1, ShiftStatus: model.StatusAbsent}))
	require.NoError(t, attendances.Create(ctx, &model.Attendance{EmployeeID: employeeID, LogDate: d2, ShiftStatus: model.StatusAbsent}))
	require.NoError(t, attendances.Create(ctx, &model.Attendance{EmployeeID: employeeID, LogDate: d3, ShiftStatus: model.StatusAbsent}))
	require.NoError(t, corrections.Create(ctx, &model.AWOCorrection{EmployeeID: employeeID, Day1Date: d1, CorrectedDate: d2, Day3Date: d3}))

	result, err := corrector.Correct(ctx, d1, d3)
	require.NoError(t, err)
	require.Equal(t, 0, result.Corrected)
}

func TestReverter_Revert_UndoesFlipWhenNeighbourNoLongerAbsent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	attendances := repository.NewAttendanceRepository(db)
	corrections := repository.NewCorrectionRepository(db)
	reverter := engine.NewReverter(attendances, corrections)

	employeeID := uuid.New()
	d1 := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)
	d3 := d1.AddDate(0, 0, 2)

	ctx := context.Background()
	require.NoError(t, attendances.Create(ctx, &model.Attendance{EmployeeID: employeeID, LogDate: d1, ShiftStatus: model.StatusPresent}))
	require.NoError(t, attendances.Create(ctx, &model.Attendance{EmployeeID: employeeID, LogDate: d2, ShiftStatus: model.StatusAbsent}))
	require.NoError(t, attendances.Create(ctx, &model.Attendance{EmployeeID: employeeID, LogDate: d3, ShiftStatus: model.StatusAbsent}))
	require.NoError(t, corrections.Create(ctx, &model.AWOCorrection{EmployeeID: employeeID, Day1Date: d1, CorrectedDate: d2, Day3Date: d3}))

	result, err := reverter.Revert(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, result.Reverted)

	reverted, err := attendances.GetByEmployeeAndDate(ctx, employeeID, d2)
	require.NoError(t, err)
	require.Equal(t, model.StatusWeekOff, reverted.ShiftStatus)

	exists, err := corrections.ExistsForEmployeeDate(ctx, employeeID, d2)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestReverter_Revert_KeepsFlipWhenBothNeighboursStillAbsent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	attendances := repository.NewAttendanceRepository(db)
	corrections := repository.NewCorrectionRepository(db)
	reverter := engine.NewReverter(attendances, corrections)

	employeeID := uuid.New()
	d1 := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)
	d3 := d1.AddDate(0, 0, 2)

	ctx := context.Background()
	require.NoError(t, attendances.Create(ctx, &model.Attendance{EmployeeID: employeeID, LogDate: d1, ShiftStatus: model.StatusAbsent}))
	require.NoError(t, attendances.Create(ctx, &model.Attendance{EmployeeID: employeeID, LogDate: d2, ShiftStatus: model.StatusAbsent}))
	require.NoError(t, attendances.Create(ctx, &model.Attendance{EmployeeID: employeeID, LogDate: d3, ShiftStatus: model.StatusAbsent}))
	require.NoError(t, corrections.Create(ctx, &model.AWOCorrection{EmployeeID: employeeID, Day1Date: d1, CorrectedDate: d2, Day3Date: d3}))

	result, err := reverter.Revert(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, result.Reverted)
}
