package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pontocerto/ponto-backend-go/internal/domain/report"
	"github.com/pontocerto/ponto-backend-go/internal/domain/timesheet"
	"github.com/pontocerto/ponto-backend-go/internal/handler/http/response"
)

type TimesheetHandler interface {
	GetMonth(w http.ResponseWriter, r *http.Request)
	GetMonthlyReport(w http.ResponseWriter, r *http.Request)
}

type timesheetHandlerImpl struct {
	timesheetService timesheet.TimesheetService
	reportService    report.ReportService
}

func NewTimesheetHandler(timesheetService timesheet.TimesheetService, reportService report.ReportService) TimesheetHandler {
	return &timesheetHandlerImpl{
		timesheetService: timesheetService,
		reportService:    reportService,
	}
}

// GetMonth implements TimesheetHandler.
func (h *timesheetHandlerImpl) GetMonth(w http.ResponseWriter, r *http.Request) {
	req, ok := monthRequestFromURL(w, r)
	if !ok {
		return
	}

	result, err := h.timesheetService.ResolveMonth(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMonthlyReport implements TimesheetHandler.
func (h *timesheetHandlerImpl) GetMonthlyReport(w http.ResponseWriter, r *http.Request) {
	req, ok := monthRequestFromURL(w, r)
	if !ok {
		return
	}

	result, err := h.reportService.GenerateMonthlyTimesheetReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func monthRequestFromURL(w http.ResponseWriter, r *http.Request) (timesheet.MonthRequest, bool) {
	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		response.BadRequest(w, "employeeID is required", nil)
		return timesheet.MonthRequest{}, false
	}

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		response.BadRequest(w, "year must be a number", nil)
		return timesheet.MonthRequest{}, false
	}

	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		response.BadRequest(w, "month must be a number", nil)
		return timesheet.MonthRequest{}, false
	}

	return timesheet.MonthRequest{
		EmployeeID: employeeID,
		Year:       year,
		Month:      month,
	}, true
}
