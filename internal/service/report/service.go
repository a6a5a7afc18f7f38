package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pontocerto/ponto-backend-go/internal/domain/employee"
	"github.com/pontocerto/ponto-backend-go/internal/domain/report"
	"github.com/pontocerto/ponto-backend-go/internal/domain/site"
	"github.com/pontocerto/ponto-backend-go/internal/domain/timesheet"
)

type ReportServiceImpl struct {
	timesheetService timesheet.TimesheetService
	employeeRepo     employee.EmployeeRepository
	siteRepo         site.SiteRepository
}

func NewReportService(
	timesheetService timesheet.TimesheetService,
	employeeRepo employee.EmployeeRepository,
	siteRepo site.SiteRepository,
) report.ReportService {
	return &ReportServiceImpl{
		timesheetService: timesheetService,
		employeeRepo:     employeeRepo,
		siteRepo:         siteRepo,
	}
}

// GenerateMonthlyTimesheetReport implements report.ReportService. Strictly
// read-only: it hands renderers the resolved month plus the employee header
// and defines nothing about layout.
func (s *ReportServiceImpl) GenerateMonthlyTimesheetReport(ctx context.Context, req timesheet.MonthRequest) (report.MonthlyTimesheetReport, error) {
	if err := req.Validate(); err != nil {
		return report.MonthlyTimesheetReport{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return report.MonthlyTimesheetReport{}, employee.ErrEmployeeNotFound
		}
		return report.MonthlyTimesheetReport{}, fmt.Errorf("failed to get employee: %w", err)
	}

	st, err := s.siteRepo.GetByID(ctx, emp.SiteID)
	if err != nil {
		return report.MonthlyTimesheetReport{}, fmt.Errorf("failed to get site: %w", err)
	}

	sheet, err := s.timesheetService.ResolveMonth(ctx, req)
	if err != nil {
		return report.MonthlyTimesheetReport{}, fmt.Errorf("failed to resolve month: %w", err)
	}

	return report.MonthlyTimesheetReport{
		EmployeeID:   emp.ID,
		EmployeeName: emp.FullName,
		TaxID:        emp.TaxID,
		SiteName:     st.Name,
		PeriodMonth:  req.Month,
		PeriodYear:   req.Year,
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
		Timesheet:    sheet,
	}, nil
}
