package timesheet

import (
	"fmt"
	"time"

	"github.com/pontocerto/ponto-backend-go/internal/pkg/validator"
)

// DayRow is the normalized reconstruction of one civil day. All clock fields
// are HH:MM in the site timezone and nil when no punch of that kind exists.
type DayRow struct {
	DayOfMonth int    `json:"day_of_month"`
	Weekday    string `json:"weekday"`

	CheckIn       *string `json:"check_in,omitempty"`
	CheckOut      *string `json:"check_out,omitempty"`
	BreakStart    *string `json:"break_start,omitempty"`
	BreakEnd      *string `json:"break_end,omitempty"`
	OvertimeStart *string `json:"overtime_start,omitempty"`
	OvertimeEnd   *string `json:"overtime_end,omitempty"`

	WorkedMinutes    int    `json:"worked_minutes"`
	WorkedHoursLabel string `json:"worked_hours_label"`
}

// MonthTimesheet is the resolved month: one row per calendar day, in order.
type MonthTimesheet struct {
	EmployeeID      string   `json:"employee_id"`
	Year            int      `json:"year"`
	Month           int      `json:"month"`
	Timezone        string   `json:"timezone"`
	Rows            []DayRow `json:"rows"`
	TotalMinutes    int      `json:"total_minutes"`
	TotalHoursLabel string   `json:"total_hours_label"`
}

type MonthRequest struct {
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
}

func (r *MonthRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	currentYear := time.Now().Year()
	if r.Year < 2000 || r.Year > currentYear+1 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: fmt.Sprintf("year must be between 2000 and %d", currentYear+1),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
