package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/punchline/attendance/internal/model"
	"github.com/punchline/attendance/internal/repository"
	"github.com/punchline/attendance/internal/testutil"
)

func TestHolidayRepository_UpsertMany_InsertsThenUpdatesOnConflict(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewHolidayRepository(db)
	ctx := context.Background()

	date := time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpsertMany(ctx, []model.Holiday{
		{HolidayDate: date, Name: "Tag der Deutschen Einheit", Type: model.HolidayTypePaid},
	}))

	require.NoError(t, repo.UpsertMany(ctx, []model.Holiday{
		{HolidayDate: date, Name: "Tag der Deutschen Einheit (updated)", Type: model.HolidayTypePaid},
	}))

	rows, err := repo.ListBetween(ctx, date, date)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Tag der Deutschen Einheit (updated)", rows[0].Name)
}

func TestHolidayRepository_UpsertMany_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewHolidayRepository(db)

	require.NoError(t, repo.UpsertMany(context.Background(), nil))
}
