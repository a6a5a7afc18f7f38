package timesheet

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/pontocerto/ponto-backend-go/internal/config"
	"github.com/pontocerto/ponto-backend-go/internal/domain/employee"
	"github.com/pontocerto/ponto-backend-go/internal/domain/punch"
	"github.com/pontocerto/ponto-backend-go/internal/domain/site"
	"github.com/pontocerto/ponto-backend-go/internal/domain/timesheet"
	"github.com/pontocerto/ponto-backend-go/internal/pkg/civil"
)

type TimesheetServiceImpl struct {
	punch.PunchRepository
	employee.EmployeeRepository
	site.SiteRepository
	cfg config.PunchConfig
}

func NewTimesheetService(
	punchRepo punch.PunchRepository,
	employeeRepo employee.EmployeeRepository,
	siteRepo site.SiteRepository,
	cfg config.PunchConfig,
) timesheet.TimesheetService {
	return &TimesheetServiceImpl{
		PunchRepository:    punchRepo,
		EmployeeRepository: employeeRepo,
		SiteRepository:     siteRepo,
		cfg:                cfg,
	}
}

// ResolveMonth implements timesheet.TimesheetService. One range query covers
// the whole month; punches are then bucketed per civil day and each day is
// resolved independently, including days with no punches at all.
func (s *TimesheetServiceImpl) ResolveMonth(ctx context.Context, req timesheet.MonthRequest) (timesheet.MonthTimesheet, error) {
	if err := req.Validate(); err != nil {
		return timesheet.MonthTimesheet{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return timesheet.MonthTimesheet{}, employee.ErrEmployeeNotFound
		}
		return timesheet.MonthTimesheet{}, fmt.Errorf("failed to get employee: %w", err)
	}

	st, err := s.SiteRepository.GetByID(ctx, emp.SiteID)
	if err != nil {
		return timesheet.MonthTimesheet{}, fmt.Errorf("failed to get site: %w", err)
	}

	loc, err := time.LoadLocation(st.Timezone)
	if err != nil {
		loc, err = time.LoadLocation(s.cfg.DefaultTimezone)
		if err != nil {
			loc = time.UTC
		}
	}

	month := time.Month(req.Month)
	from, to := civil.MonthBounds(req.Year, month, loc)
	punches, err := s.PunchRepository.ListRange(ctx, emp.ID, from, to)
	if err != nil {
		return timesheet.MonthTimesheet{}, fmt.Errorf("failed to list punches for month: %w", err)
	}

	byDay := make(map[string][]punch.Punch)
	for _, p := range punches {
		key := civil.DateOf(p.OccurredAt, loc).Key()
		byDay[key] = append(byDay[key], p)
	}

	days := civil.DaysInMonth(req.Year, month)
	rows := make([]timesheet.DayRow, 0, days)
	totalMinutes := 0
	for day := 1; day <= days; day++ {
		date := civil.Date{Year: req.Year, Month: month, Day: day}
		row := ResolveDay(byDay[date.Key()], date, loc, s.cfg.BreakSynthesisMinutes)
		totalMinutes += row.WorkedMinutes
		rows = append(rows, row)
	}

	return timesheet.MonthTimesheet{
		EmployeeID:      emp.ID,
		Year:            req.Year,
		Month:           req.Month,
		Timezone:        st.Timezone,
		Rows:            rows,
		TotalMinutes:    totalMinutes,
		TotalHoursLabel: civil.FormatHoursLabel(totalMinutes),
	}, nil
}

// ResolveDay reconstructs one civil day from an unordered, possibly sparse
// punch slice. Pure function: it never touches storage and never fails —
// inconsistent data degrades to the forgiving rules below so a report can
// always be produced.
func ResolveDay(punches []punch.Punch, date civil.Date, loc *time.Location, breakSynthesisMinutes int) timesheet.DayRow {
	row := timesheet.DayRow{
		DayOfMonth: date.Day,
		Weekday:    date.Weekday(loc).String()[:3],
	}

	// First occurrence per kind wins; accidental re-punches of the same kind
	// stay in the store but never inflate totals.
	firsts := make(map[punch.Kind]time.Time)
	for _, p := range punches {
		if first, ok := firsts[p.Kind]; !ok || p.OccurredAt.Before(first) {
			firsts[p.Kind] = p.OccurredAt
		}
	}

	checkIn, hasCheckIn := firsts[punch.KindCheckIn]
	checkOut, hasCheckOut := firsts[punch.KindCheckOut]
	breakStart, hasBreakStart := firsts[punch.KindBreakStart]
	breakEnd, hasBreakEnd := firsts[punch.KindBreakEnd]
	otStart, hasOTStart := firsts[punch.KindOvertimeStart]
	otEnd, hasOTEnd := firsts[punch.KindOvertimeEnd]

	row.CheckIn = clockLabel(checkIn, hasCheckIn, loc)
	row.CheckOut = clockLabel(checkOut, hasCheckOut, loc)
	row.BreakStart = clockLabel(breakStart, hasBreakStart, loc)
	row.BreakEnd = clockLabel(breakEnd, hasBreakEnd, loc)
	row.OvertimeStart = clockLabel(otStart, hasOTStart, loc)
	row.OvertimeEnd = clockLabel(otEnd, hasOTEnd, loc)

	// Legacy flows sometimes recorded only the return from break. The
	// synthesized start exists for duration math only; it is never displayed
	// and never written back.
	if hasBreakEnd && !hasBreakStart {
		breakStart = breakEnd.Add(-time.Duration(breakSynthesisMinutes) * time.Minute)
		hasBreakStart = true
	}

	// An incomplete day credits zero rather than erroring or guessing.
	if !hasCheckIn || !hasCheckOut {
		row.WorkedHoursLabel = civil.FormatHoursLabel(0)
		return row
	}

	total := checkOut.Sub(checkIn)
	if hasBreakStart && hasBreakEnd && breakEnd.After(breakStart) {
		// A break pair whose end is not after its start is an anomaly and is
		// ignored instead of producing a negative duration.
		total -= breakEnd.Sub(breakStart)
	}

	worked := roundMinutes(total)
	if worked < 0 {
		worked = 0
	}

	if hasOTStart && hasOTEnd && otEnd.After(otStart) {
		worked += roundMinutes(otEnd.Sub(otStart))
	}

	row.WorkedMinutes = worked
	row.WorkedHoursLabel = civil.FormatHoursLabel(worked)
	return row
}

func roundMinutes(d time.Duration) int {
	return int(math.Round(float64(d.Milliseconds()) / 60000.0))
}

func clockLabel(instant time.Time, present bool, loc *time.Location) *string {
	if !present {
		return nil
	}
	label := civil.FormatClock(instant, loc)
	return &label
}
