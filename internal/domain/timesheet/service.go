package timesheet

import "context"

// TimesheetService reconstructs worked time from the raw punch trail. Both
// operations are read-only and deterministic: the same stored punches always
// produce byte-identical output.
type TimesheetService interface {
	// ResolveMonth builds the full month table for an employee, one DayRow
	// per calendar day including days without punches.
	ResolveMonth(ctx context.Context, req MonthRequest) (MonthTimesheet, error)
}
