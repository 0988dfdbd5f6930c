package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/punchline/attendance/internal/model"
	"github.com/punchline/attendance/internal/repository"
)

// maxPairsPerDay bounds the duty-pair split per ("up to ten pairs").
const maxPairsPerDay = 10

// Mandays groups a trailing window of punches into per-employee-day duty
// pairs , incremental via LastLogIdMandays so reruns only touch new
// punches.
type Mandays struct {
	punches *repository.PunchRepository
	mandays *repository.MandaysRepository
	timezone *time.Location
}

func NewMandays(punches *repository.PunchRepository, mandays *repository.MandaysRepository, loc *time.Location) *Mandays {
	return &Mandays{punches: punches, mandays: mandays, timezone: loc}
}

// MandaysResult is the tally logged per run.
type MandaysResult struct {
	RecordsWritten int
	MissedPunches int
}

// Run processes punches with id greater than the cursor, within a trailing
// windowDays window, grouping each employee-day's punches into duty pairs.
func (m *Mandays) Run(ctx context.Context, windowDays int) (MandaysResult, error) {
	if windowDays <= 0 {
		windowDays = 100
	}
	cursor, err := m.mandays.GetCursor(ctx)
	if err != nil {
		return MandaysResult{}, fmt.Errorf("load mandays cursor: %w", err)
	}

	cutoff := dateOnly(time.Now(), m.timezone).AddDate(0, 0, -windowDays)

	grouped := make(map[employeeDayKey][]model.Punch)
	var lastID int64

	for {
		batch, err := m.punches.ListSince(ctx, cursor.LastLogID, 5000)
		if err != nil {
			return MandaysResult{}, fmt.Errorf("list punches for mandays: %w", err)
		}
		if len(batch) == 0 {
			break
		}
		for _, punch := range batch {
			date := dateOnly(punch.LogDatetime, m.timezone)
			if date.Before(cutoff) {
				continue
			}
			key := employeeDayKey{employeeID: punch.EmployeeID, date: date}
			grouped[key] = append(grouped[key], punch)
			lastID = punch.ID
		}
		cursor.LastLogID = batch[len(batch)-1].ID
		if len(batch) < 5000 {
			break
		}
	}

	var result MandaysResult
	for key, punches := range grouped {
		if len(punches) < 2 {
			continue
		}
		record, missed := buildPairs(key, punches)
		if err := m.mandays.UpsertRecord(ctx, &record); err != nil {
			return result, fmt.Errorf("upsert mandays record: %w", err)
		}
		result.RecordsWritten++

		if missed != nil {
			if err := m.mandays.CreateMissedPunch(ctx, missed); err != nil {
				return result, fmt.Errorf("record missed punch: %w", err)
			}
			result.MissedPunches++
		}
	}

	if lastID > cursor.LastLogID {
		cursor.LastLogID = lastID
	}
	if err := m.mandays.AdvanceCursor(ctx, cursor.LastLogID); err != nil {
		return result, fmt.Errorf("advance mandays cursor: %w", err)
	}

	return result, nil
}

type employeeDayKey struct {
	employeeID uuid.UUID
	date time.Time
}

// buildPairs sorts punches ascending and pairs them consecutively
// (in1,out1,in2,out2,...) up to maxPairsPerDay; a trailing unpaired IN
// becomes a missed-punch record.
func buildPairs(key employeeDayKey, punches []model.Punch) (model.MandaysRecord, *model.MandaysMissedPunch) {
	sortPunchesByTime(punches)

	record := model.MandaysRecord{
		EmployeeID: key.employeeID,
		LogDate: key.date,
	}

	var totalMinutes int
	var missed *model.MandaysMissedPunch

	for i := 0; i+1 < len(punches) && len(record.Pairs) < maxPairsPerDay; i += 2 {
		in := punches[i]
		out := punches[i+1]
		minutes := int(out.LogDatetime.Sub(in.LogDatetime) / time.Minute)
		record.Pairs = append(record.Pairs, model.MandaysPair{
			SortOrder: len(record.Pairs),
			InTime: in.LogDatetime,
			OutTime: out.LogDatetime,
			TotalTimeMinutes: minutes,
		})
		totalMinutes += minutes
	}

	if len(punches)%2 == 1 {
		trailing := punches[len(punches)-1]
		missed = &model.MandaysMissedPunch{
			EmployeeID: key.employeeID,
			LogDate: key.date,
			InTime: trailing.LogDatetime,
		}
	}

	record.PairCount = len(record.Pairs)
	record.TotalHoursWorked = totalMinutes / 60
	return record, missed
}

func sortPunchesByTime(punches []model.Punch) {
	for i := 1; i < len(punches); i++ {
		for j := i; j > 0 && punches[j].LogDatetime.Before(punches[j-1].LogDatetime); j-- {
			punches[j], punches[j-1] = punches[j-1], punches[j]
		}
	}
}
