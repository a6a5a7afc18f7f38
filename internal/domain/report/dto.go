package report

import (
	"github.com/pontocerto/ponto-backend-go/internal/domain/timesheet"
)

// MonthlyTimesheetReport is the structure handed to rendering/export
// collaborators. This core emits data only; layout is theirs.
type MonthlyTimesheetReport struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	TaxID        string `json:"tax_id"`
	SiteName     string `json:"site_name"`

	PeriodMonth int    `json:"period_month"`
	PeriodYear  int    `json:"period_year"`
	GeneratedAt string `json:"generated_at"`

	Timesheet timesheet.MonthTimesheet `json:"timesheet"`
}
