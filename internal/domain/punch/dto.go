package punch

import (
	"time"

	"github.com/pontocerto/ponto-backend-go/internal/pkg/validator"
)

// ========================================
// PUNCH DTOs
// ========================================

// Location is the optional GPS fix attached to a punch.
type Location struct {
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	AccuracyMeters *float64 `json:"accuracy_meters,omitempty"`
}

// SubmitPunchRequest is the single typed boundary for raw kiosk/mobile
// input. Either employee_id or tax_id identifies the employee. Provenance
// fields (client_ip, user_agent, recorded_by) are stamped by the handler,
// never trusted from the body.
type SubmitPunchRequest struct {
	EmployeeID  string    `json:"employee_id"`
	TaxID       string    `json:"tax_id"`
	SiteID      string    `json:"site_id"`
	Kind        Kind      `json:"kind"`
	OccurredAt  string    `json:"occurred_at"`
	Location    *Location `json:"location,omitempty"`
	EvidenceRef *string   `json:"evidence_ref,omitempty"`
	KioskCode   *string   `json:"kiosk_code,omitempty"`
	DeviceID    string    `json:"device_id"`

	ClientIP   string  `json:"-"`
	UserAgent  string  `json:"-"`
	RecordedBy *string `json:"-"`

	// Parsed by Validate.
	Instant time.Time `json:"-"`
}

func (r *SubmitPunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) && validator.IsEmpty(r.TaxID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id or tax_id is required",
		})
	}

	if !validator.IsEmpty(r.EmployeeID) && !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if !validator.IsEmpty(r.TaxID) && !validator.IsValidCPF(r.TaxID) {
		errs = append(errs, validator.ValidationError{
			Field:   "tax_id",
			Message: "tax_id must contain 11 digits",
		})
	}

	if validator.IsEmpty(r.SiteID) {
		errs = append(errs, validator.ValidationError{
			Field:   "site_id",
			Message: "site_id is required",
		})
	} else if !validator.IsValidUUID(r.SiteID) {
		errs = append(errs, validator.ValidationError{
			Field:   "site_id",
			Message: "site_id must be a valid UUID",
		})
	}

	if !r.Kind.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind must be one of CHECK_IN, CHECK_OUT, BREAK_START, BREAK_END, OVERTIME_START, OVERTIME_END",
		})
	}

	if validator.IsEmpty(r.OccurredAt) {
		errs = append(errs, validator.ValidationError{
			Field:   "occurred_at",
			Message: "occurred_at is required",
		})
	} else if instant, ok := validator.IsValidDateTime(r.OccurredAt); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "occurred_at",
			Message: "occurred_at must be an RFC3339 timestamp",
		})
	} else {
		r.Instant = instant.UTC()
	}

	if r.Location != nil {
		if !validator.IsValidLatitude(r.Location.Latitude) {
			errs = append(errs, validator.ValidationError{
				Field:   "location.latitude",
				Message: "latitude must be between -90 and 90",
			})
		}
		if !validator.IsValidLongitude(r.Location.Longitude) {
			errs = append(errs, validator.ValidationError{
				Field:   "location.longitude",
				Message: "longitude must be between -180 and 180",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PunchResponse struct {
	ID            string    `json:"id"`
	EmployeeID    string    `json:"employee_id"`
	SiteID        string    `json:"site_id"`
	Kind          Kind      `json:"kind"`
	OccurredAt    string    `json:"occurred_at"`
	Location      *Location `json:"location,omitempty"`
	EvidenceRef   *string   `json:"evidence_ref,omitempty"`
	IntegrityHash string    `json:"integrity_hash"`
	ProtocolID    string    `json:"protocol_id"`
	RecordedBy    *string   `json:"recorded_by,omitempty"`
	CreatedAt     string    `json:"created_at"`
}

type VerifyResponse struct {
	ProtocolID   string `json:"protocol_id"`
	StoredHash   string `json:"stored_hash"`
	ComputedHash string `json:"computed_hash"`
	Valid        bool   `json:"valid"`
}

// PunchFilter filters the raw punch listing. StartDate and EndDate are civil
// dates in the employee's site timezone; the service projects them onto the
// UTC instants the repository actually compares against.
type PunchFilter struct {
	StartDate *string
	EndDate   *string
	Kind      *Kind
	Page      int
	Limit     int

	// Resolved by the service from StartDate/EndDate and the site timezone.
	FromInstant *time.Time
	ToInstant   *time.Time
}

func (f *PunchFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if f.EndDate != nil && *f.EndDate != "" {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}
	if f.Kind != nil && !f.Kind.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "invalid punch kind",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListPunchesResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	Punches    []PunchResponse `json:"punches"`
}
