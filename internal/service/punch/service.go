package punch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/pontocerto/ponto-backend-go/internal/config"
	"github.com/pontocerto/ponto-backend-go/internal/domain/employee"
	"github.com/pontocerto/ponto-backend-go/internal/domain/punch"
	"github.com/pontocerto/ponto-backend-go/internal/domain/site"
	"github.com/pontocerto/ponto-backend-go/internal/pkg/civil"
	"github.com/pontocerto/ponto-backend-go/internal/pkg/integrity"
	"github.com/pontocerto/ponto-backend-go/internal/pkg/utils"
	"github.com/pontocerto/ponto-backend-go/internal/pkg/validator"
)

// SubmitLocker serializes the anti-replay check-then-append sequence for one
// (employee, site, kind) key. The storage-level protocol uniqueness remains
// the backstop if two instances race anyway.
type SubmitLocker interface {
	WithSubmitLock(ctx context.Context, employeeID, siteID, kind string, fn func(ctx context.Context) error) error
}

type PunchServiceImpl struct {
	punch.PunchRepository
	employee.EmployeeRepository
	site.SiteRepository
	locker SubmitLocker
	cfg    config.PunchConfig
}

func NewPunchService(
	punchRepo punch.PunchRepository,
	employeeRepo employee.EmployeeRepository,
	siteRepo site.SiteRepository,
	locker SubmitLocker,
	cfg config.PunchConfig,
) punch.PunchService {
	return &PunchServiceImpl{
		PunchRepository:    punchRepo,
		EmployeeRepository: employeeRepo,
		SiteRepository:     siteRepo,
		locker:             locker,
		cfg:                cfg,
	}
}

// Submit implements punch.PunchService. The pipeline short-circuits on the
// first failed check; nothing is written unless every check passes.
func (s *PunchServiceImpl) Submit(ctx context.Context, req punch.SubmitPunchRequest) (punch.PunchResponse, error) {
	if err := req.Validate(); err != nil {
		return punch.PunchResponse{}, err
	}

	emp, err := s.resolveEmployee(ctx, req)
	if err != nil {
		return punch.PunchResponse{}, err
	}
	if !emp.Active {
		return punch.PunchResponse{}, punch.ErrUnknownEmployee
	}

	st, err := s.SiteRepository.GetByID(ctx, req.SiteID)
	if err != nil {
		if errors.Is(err, site.ErrSiteNotFound) {
			return punch.PunchResponse{}, site.ErrSiteNotFound
		}
		return punch.PunchResponse{}, fmt.Errorf("failed to get site: %w", err)
	}

	if st.HasGeofence() {
		if req.Location != nil {
			distance := utils.CalculateHaversineDistance(
				req.Location.Latitude, req.Location.Longitude,
				*st.Latitude, *st.Longitude,
			)
			if distance > float64(*st.GeofenceRadiusMeters) {
				return punch.PunchResponse{}, punch.ErrOutOfGeofence
			}
		} else if st.RequireLocation {
			return punch.PunchResponse{}, punch.ErrLocationRequired
		}
	} else if st.RequireLocation && req.Location == nil {
		return punch.PunchResponse{}, punch.ErrLocationRequired
	}

	if st.RequireEvidence && req.EvidenceRef == nil {
		return punch.PunchResponse{}, punch.ErrEvidenceRequired
	}

	loc := s.siteLocation(st)

	hash := integrity.ComputeHash(integrity.Fields{
		OccurredAt: req.Instant,
		TaxID:      emp.TaxID,
		SiteRef:    st.ID,
		Kind:       string(req.Kind),
		ClientIP:   req.ClientIP,
		DeviceID:   req.DeviceID,
		KioskCode:  derefOrEmpty(req.KioskCode),
	})
	protocolID := integrity.ComputeProtocolID(s.cfg.ProtocolPrefix, req.Instant, loc, hash)

	newPunch := punch.Punch{
		ID:            uuid.NewString(),
		EmployeeID:    emp.ID,
		SiteID:        st.ID,
		Kind:          req.Kind,
		OccurredAt:    req.Instant,
		EvidenceRef:   req.EvidenceRef,
		KioskCode:     req.KioskCode,
		DeviceID:      req.DeviceID,
		ClientIP:      req.ClientIP,
		UserAgent:     req.UserAgent,
		IntegrityHash: hash,
		ProtocolID:    protocolID,
		RecordedBy:    req.RecordedBy,
	}
	if req.Location != nil {
		newPunch.Latitude = &req.Location.Latitude
		newPunch.Longitude = &req.Location.Longitude
		newPunch.AccuracyMeters = req.Location.AccuracyMeters
	}

	var stored punch.Punch
	err = s.locker.WithSubmitLock(ctx, emp.ID, st.ID, string(req.Kind), func(ctx context.Context) error {
		last, err := s.PunchRepository.LastByKind(ctx, emp.ID, st.ID, req.Kind)
		if err != nil {
			return fmt.Errorf("failed to get last punch: %w", err)
		}
		if last != nil && withinWindow(last.OccurredAt, req.Instant, s.cfg.ReplayWindow) {
			// A literal retransmission carries the same instant, hence the
			// same protocol id, and is handled below as an idempotent
			// success. Anything else inside the window is a re-punch.
			if last.ProtocolID != protocolID {
				return punch.ErrDuplicateWindow
			}
		}

		stored, err = s.PunchRepository.Append(ctx, newPunch)
		return err
	})
	if err != nil {
		if errors.Is(err, punch.ErrDuplicateProtocol) {
			// The exact same request is already durably recorded; the
			// caller's retry must see success.
			stored, err = s.PunchRepository.GetByProtocolID(ctx, protocolID)
			if err != nil {
				return punch.PunchResponse{}, fmt.Errorf("failed to load recorded punch: %w", err)
			}
			return mapPunchToResponse(stored), nil
		}
		return punch.PunchResponse{}, err
	}

	return mapPunchToResponse(stored), nil
}

// Verify implements punch.PunchService.
func (s *PunchServiceImpl) Verify(ctx context.Context, protocolID string) (punch.VerifyResponse, error) {
	p, err := s.PunchRepository.GetByProtocolID(ctx, protocolID)
	if err != nil {
		if errors.Is(err, punch.ErrPunchNotFound) {
			return punch.VerifyResponse{}, punch.ErrPunchNotFound
		}
		return punch.VerifyResponse{}, fmt.Errorf("failed to get punch: %w", err)
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, p.EmployeeID)
	if err != nil {
		return punch.VerifyResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	computed := integrity.ComputeHash(integrity.Fields{
		OccurredAt: p.OccurredAt,
		TaxID:      emp.TaxID,
		SiteRef:    p.SiteID,
		Kind:       string(p.Kind),
		ClientIP:   p.ClientIP,
		DeviceID:   p.DeviceID,
		KioskCode:  derefOrEmpty(p.KioskCode),
	})

	return punch.VerifyResponse{
		ProtocolID:   p.ProtocolID,
		StoredHash:   p.IntegrityHash,
		ComputedHash: computed,
		Valid:        computed == p.IntegrityHash,
	}, nil
}

// ListMyPunches implements punch.PunchService. The date filters are civil
// dates at the employee's site; they are projected through the civil-day
// bounds so a late-evening local punch never leaks into the next day's bucket.
func (s *PunchServiceImpl) ListMyPunches(ctx context.Context, employeeID string, filter punch.PunchFilter) (punch.ListPunchesResponse, error) {
	if err := filter.Validate(); err != nil {
		return punch.ListPunchesResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return punch.ListPunchesResponse{}, employee.ErrEmployeeNotFound
		}
		return punch.ListPunchesResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	st, err := s.SiteRepository.GetByID(ctx, emp.SiteID)
	if err != nil {
		return punch.ListPunchesResponse{}, fmt.Errorf("failed to get site: %w", err)
	}
	loc := s.siteLocation(st)

	if filter.StartDate != nil && *filter.StartDate != "" {
		if d, ok := validator.IsValidDate(*filter.StartDate); ok {
			from, _ := civil.DayBounds(civil.Date{Year: d.Year(), Month: d.Month(), Day: d.Day()}, loc)
			filter.FromInstant = &from
		}
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		if d, ok := validator.IsValidDate(*filter.EndDate); ok {
			_, to := civil.DayBounds(civil.Date{Year: d.Year(), Month: d.Month(), Day: d.Day()}, loc)
			filter.ToInstant = &to
		}
	}

	punches, total, err := s.PunchRepository.ListByEmployee(ctx, employeeID, filter)
	if err != nil {
		return punch.ListPunchesResponse{}, fmt.Errorf("failed to list punches: %w", err)
	}

	responses := make([]punch.PunchResponse, 0, len(punches))
	for _, p := range punches {
		responses = append(responses, mapPunchToResponse(p))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return punch.ListPunchesResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Punches:    responses,
	}, nil
}

func (s *PunchServiceImpl) resolveEmployee(ctx context.Context, req punch.SubmitPunchRequest) (employee.Employee, error) {
	var (
		emp employee.Employee
		err error
	)
	if req.EmployeeID != "" {
		emp, err = s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	} else {
		emp, err = s.EmployeeRepository.GetByTaxID(ctx, integrity.NormalizeTaxID(req.TaxID))
	}
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, punch.ErrUnknownEmployee
		}
		return employee.Employee{}, fmt.Errorf("failed to resolve employee: %w", err)
	}
	return emp, nil
}

func (s *PunchServiceImpl) siteLocation(st site.Site) *time.Location {
	loc, err := time.LoadLocation(st.Timezone)
	if err == nil {
		return loc
	}
	loc, err = time.LoadLocation(s.cfg.DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func withinWindow(a, b time.Time, window time.Duration) bool {
	diff := b.Sub(a)
	if diff < 0 {
		diff = -diff
	}
	return diff < window
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func mapPunchToResponse(p punch.Punch) punch.PunchResponse {
	resp := punch.PunchResponse{
		ID:            p.ID,
		EmployeeID:    p.EmployeeID,
		SiteID:        p.SiteID,
		Kind:          p.Kind,
		OccurredAt:    p.OccurredAt.UTC().Format(time.RFC3339),
		EvidenceRef:   p.EvidenceRef,
		IntegrityHash: p.IntegrityHash,
		ProtocolID:    p.ProtocolID,
		RecordedBy:    p.RecordedBy,
		CreatedAt:     p.CreatedAt.UTC().Format(time.RFC3339),
	}
	if p.Latitude != nil && p.Longitude != nil {
		resp.Location = &punch.Location{
			Latitude:       *p.Latitude,
			Longitude:      *p.Longitude,
			AccuracyMeters: p.AccuracyMeters,
		}
	}
	return resp
}
