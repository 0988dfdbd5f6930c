package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/punchline/attendance/internal/model"
	"github.com/punchline/attendance/internal/repository"
	"github.com/punchline/attendance/internal/testutil"
)

func TestMandaysRepository_DeleteForDateRange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewMandaysRepository(db)
	ctx := context.Background()

	employeeID := uuid.New()
	inRange := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	outOfRange := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.UpsertRecord(ctx, &model.MandaysRecord{
		EmployeeID: employeeID,
		LogDate:    inRange,
		Pairs: []model.MandaysPair{
			{SortOrder: 0, InTime: inRange.Add(9 * time.Hour), OutTime: inRange.Add(17 * time.Hour), TotalTimeMinutes: 480},
		},
	}))
	require.NoError(t, repo.UpsertRecord(ctx, &model.MandaysRecord{
		EmployeeID: employeeID,
		LogDate:    outOfRange,
	}))

	require.NoError(t, repo.DeleteForDateRange(ctx, inRange, inRange))

	remaining, err := repo.ListForEmployeeDateRange(ctx, employeeID, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, outOfRange, remaining[0].LogDate)
}

func TestMandaysRepository_RewindCursor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewMandaysRepository(db)
	punches := repository.NewPunchRepository(db)
	ctx := context.Background()

	employeeID := uuid.New()
	before := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	after := time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)
	cutoff := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	require.NoError(t, punches.UpsertPunch(ctx, &model.Punch{EmployeeID: employeeID, LogDatetime: before, DirectionHint: model.DirectionIn, Source: model.PunchSourceDevice}))
	require.NoError(t, punches.UpsertPunch(ctx, &model.Punch{EmployeeID: employeeID, LogDatetime: after, DirectionHint: model.DirectionOut, Source: model.PunchSourceDevice}))

	require.NoError(t, repo.RewindCursor(ctx, cutoff))

	cursor, err := repo.GetCursor(ctx)
	require.NoError(t, err)
	require.NotZero(t, cursor.LastLogID)
}
