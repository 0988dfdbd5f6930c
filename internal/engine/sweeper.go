package engine

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm/clause"

	"github.com/punchline/attendance/internal/model"
	"github.com/punchline/attendance/internal/repository"
)

// Sweeper materializes Absent/Week-Off/Holiday rows for dates with no
// aggregate. Idempotent and re-runnable: it never overwrites an
// existing row, relying on conflict-ignore at insert time.
type Sweeper struct {
	db *repository.DB
	caches *Caches
}

func NewSweeper(db *repository.DB, caches *Caches) *Sweeper {
	return &Sweeper{db: db, caches: caches}
}

// SweepResult is the tally requires the sweeper to log.
type SweepResult struct {
	Inserted int
}

// Run sweeps the last days days, one employee-date pair at a time, for
// every employee whose employment window covers that date.
func (s *Sweeper) Run(ctx context.Context, days int) (SweepResult, error) {
	if days <= 0 {
		days = 400
	}
	today := dateOnly(time.Now(), s.caches.Timezone)

	rows := make([]model.Attendance, 0, 256)
	var inserted int
	for _, employee := range s.caches.Employees {
		for offset := 0; offset < days; offset++ {
			date := today.AddDate(0, 0, -offset)
			if !employee.CoversDate(date) {
				continue
			}

			status := s.statusFor(employee, date)
			rows = append(rows, model.Attendance{
				EmployeeID: employee.ID,
				LogDate: date,
				ShiftStatus: status,
			})

			if len(rows) >= 1000 {
				n, err := s.flush(ctx, rows)
				if err != nil {
					return SweepResult{}, err
				}
				inserted += n
				rows = rows[:0]
			}
		}
	}

	n, err := s.flush(ctx, rows)
	if err != nil {
		return SweepResult{}, err
	}
	inserted += n
	return SweepResult{Inserted: inserted}, nil
}

func (s *Sweeper) statusFor(employee model.Employee, date time.Time) model.ShiftStatus {
	if holiday, ok := s.caches.HolidayOn(date); ok {
		if holiday.Type == model.HolidayTypeFlexi {
			return model.StatusFlexiHoliday
		}
		return model.StatusPaidHoliday
	}
	if weekdayIn(date.Weekday(), employee.WeeklyOffDays()) {
		return model.StatusWeekOff
	}
	return model.StatusAbsent
}

// flush bulk-inserts with conflict-ignore on (employee_id, log_date),
// never overwriting a row the processor or a prior sweep already wrote.
func (s *Sweeper) flush(ctx context.Context, rows []model.Attendance) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	result := s.db.GORM.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows)
	if result.Error != nil {
		return 0, fmt.Errorf("bulk-insert absentee rows: %w", result.Error)
	}
	return int(result.RowsAffected), nil
}
