package response

import (
	"errors"
	"net/http"

	"github.com/pontocerto/ponto-backend-go/internal/domain/employee"
	"github.com/pontocerto/ponto-backend-go/internal/domain/punch"
	"github.com/pontocerto/ponto-backend-go/internal/domain/site"
	"github.com/pontocerto/ponto-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Punch ingestion rejections (closed taxonomy)
	switch {
	case errors.Is(err, punch.ErrUnknownEmployee):
		Rejected(w, "UNKNOWN_EMPLOYEE", err.Error())
	case errors.Is(err, punch.ErrOutOfGeofence):
		Rejected(w, "OUT_OF_GEOFENCE", err.Error())
	case errors.Is(err, punch.ErrLocationRequired):
		Rejected(w, "LOCATION_REQUIRED", err.Error())
	case errors.Is(err, punch.ErrEvidenceRequired):
		Rejected(w, "EVIDENCE_REQUIRED", err.Error())
	case errors.Is(err, punch.ErrDuplicateWindow):
		Rejected(w, "DUPLICATE_WINDOW", err.Error())

	// Lookup errors
	case errors.Is(err, punch.ErrPunchNotFound):
		NotFound(w, "Punch not found")
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, site.ErrSiteNotFound):
		NotFound(w, "Site not found")

	// Default: unexpected storage or infrastructure failure. Safe to retry;
	// ingestion is idempotent by protocol id.
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
