package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/punchline/attendance/internal/model"
	"github.com/punchline/attendance/internal/repository"
)

// Caches holds the read-mostly reference data a run touches: Shift,
// Employee, Holiday, DeviceConfig. Loaded once when a command starts and
// passed explicitly into each component, never a package-level singleton.
// It is not reloaded between the Runner's ticks, so under `serve` changes to
// the reference data take effect only when the process restarts.
type Caches struct {
	Employees map[uuid.UUID]model.Employee
	Shifts map[uuid.UUID]model.Shift
	// ShiftsByName lets the processor resolve an aggregate's shift-name
	// snapshot back to full shift parameters when recomputing metrics.
	ShiftsByName map[string]model.Shift
	// AutoShiftOrder is every active shift ordered by name, the
	// deterministic first-match order auto-shift matching walks.
	AutoShiftOrder []model.Shift
	Holidays map[string]model.Holiday
	DeviceConfigs map[deviceIdentity]model.Direction

	Timezone *time.Location
}

// LoadCaches refreshes all in-process caches from the database.
func LoadCaches(ctx context.Context, employees *repository.EmployeeRepository, shifts *repository.ShiftRepository, holidays *repository.HolidayRepository, devices *repository.DeviceConfigRepository, loc *time.Location) (*Caches, error) {
	empList, err := employees.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load employee cache: %w", err)
	}
	shiftList, err := shifts.ListForAutoShiftMatch(ctx)
	if err != nil {
		return nil, fmt.Errorf("load shift cache: %w", err)
	}
	holidayList, err := holidays.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load holiday cache: %w", err)
	}
	deviceList, err := devices.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load device cache: %w", err)
	}

	c := &Caches{
		Employees: make(map[uuid.UUID]model.Employee, len(empList)),
		Shifts: make(map[uuid.UUID]model.Shift, len(shiftList)),
		ShiftsByName: make(map[string]model.Shift, len(shiftList)),
		AutoShiftOrder: shiftList,
		Holidays: make(map[string]model.Holiday, len(holidayList)),
		DeviceConfigs: make(map[deviceIdentity]model.Direction, len(deviceList)),
		Timezone: loc,
	}
	for _, e := range empList {
		c.Employees[e.ID] = e
	}
	for _, s := range shiftList {
		c.Shifts[s.ID] = s
		c.ShiftsByName[s.Name] = s
	}
	for _, h := range holidayList {
		c.Holidays[holidayKey(h.HolidayDate)] = h
	}
	for _, d := range deviceList {
		c.DeviceConfigs[deviceIdentity{shortname: d.Shortname, serial: d.Serial}] = d.DirectionOfUse
	}
	return c, nil
}

func holidayKey(d time.Time) string {
	return d.Format("2006-01-02")
}

// HolidayOn returns the holiday record for date, if any.
func (c *Caches) HolidayOn(date time.Time) (model.Holiday, bool) {
	h, ok := c.Holidays[holidayKey(date)]
	return h, ok
}
