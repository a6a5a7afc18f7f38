package report

import (
	"context"

	"github.com/pontocerto/ponto-backend-go/internal/domain/timesheet"
)

// ReportService is the read-only contract consumed by document renderers.
type ReportService interface {
	// GenerateMonthlyTimesheetReport resolves the month and attaches the
	// employee header used by regulatory documents.
	GenerateMonthlyTimesheetReport(ctx context.Context, req timesheet.MonthRequest) (MonthlyTimesheetReport, error)
}
