package punch

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pontocerto/ponto-backend-go/internal/config"
	"github.com/pontocerto/ponto-backend-go/internal/domain/employee"
	"github.com/pontocerto/ponto-backend-go/internal/domain/punch"
	"github.com/pontocerto/ponto-backend-go/internal/domain/site"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEmployeeID = "0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b01"
	testSiteID     = "0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b02"
	testTaxID      = "12345678909"
)

var testPunchCfg = config.PunchConfig{
	ReplayWindow:          120 * time.Second,
	BreakSynthesisMinutes: 60,
	ProtocolPrefix:        "PTO",
	DefaultTimezone:       "America/Sao_Paulo",
}

// ===== IN-MEMORY FAKES =====

type memPunchRepo struct {
	punch.PunchRepository
	punches    []punch.Punch
	lastFilter punch.PunchFilter
}

func (m *memPunchRepo) Append(ctx context.Context, p punch.Punch) (punch.Punch, error) {
	for _, existing := range m.punches {
		if existing.ProtocolID == p.ProtocolID {
			return punch.Punch{}, punch.ErrDuplicateProtocol
		}
	}
	p.CreatedAt = time.Now().UTC()
	m.punches = append(m.punches, p)
	return p, nil
}

func (m *memPunchRepo) GetByProtocolID(ctx context.Context, protocolID string) (punch.Punch, error) {
	for _, p := range m.punches {
		if p.ProtocolID == protocolID {
			return p, nil
		}
	}
	return punch.Punch{}, punch.ErrPunchNotFound
}

func (m *memPunchRepo) LastByKind(ctx context.Context, employeeID, siteID string, kind punch.Kind) (*punch.Punch, error) {
	var last *punch.Punch
	for i := range m.punches {
		p := m.punches[i]
		if p.EmployeeID != employeeID || p.SiteID != siteID || p.Kind != kind {
			continue
		}
		if last == nil || p.OccurredAt.After(last.OccurredAt) {
			last = &m.punches[i]
		}
	}
	return last, nil
}

func (m *memPunchRepo) ListByEmployee(ctx context.Context, employeeID string, filter punch.PunchFilter) ([]punch.Punch, int64, error) {
	m.lastFilter = filter
	var out []punch.Punch
	for _, p := range m.punches {
		if p.EmployeeID == employeeID {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

type memEmployeeRepo struct {
	employee.EmployeeRepository
	employees []employee.Employee
}

func (m *memEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	for _, e := range m.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (m *memEmployeeRepo) GetByTaxID(ctx context.Context, taxID string) (employee.Employee, error) {
	for _, e := range m.employees {
		if e.TaxID == taxID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

type memSiteRepo struct {
	site.SiteRepository
	sites []site.Site
}

func (m *memSiteRepo) GetByID(ctx context.Context, id string) (site.Site, error) {
	for _, s := range m.sites {
		if s.ID == id {
			return s, nil
		}
	}
	return site.Site{}, site.ErrSiteNotFound
}

// noopLocker runs the critical section directly; single-goroutine tests need
// no serialization.
type noopLocker struct{}

func (noopLocker) WithSubmitLock(ctx context.Context, employeeID, siteID, kind string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func float64Ptr(v float64) *float64 { return &v }
func intPtr(v int) *int             { return &v }
func strPtr(v string) *string       { return &v }

func newTestService(repo *memPunchRepo, sites []site.Site) punch.PunchService {
	if sites == nil {
		sites = []site.Site{{
			ID:       testSiteID,
			Name:     "Matriz",
			Timezone: "America/Sao_Paulo",
		}}
	}
	return NewPunchService(
		repo,
		&memEmployeeRepo{employees: []employee.Employee{
			{ID: testEmployeeID, FullName: "Maria Souza", TaxID: testTaxID, SiteID: testSiteID, Active: true},
			{ID: "0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b99", FullName: "Ex Colaborador", TaxID: "98765432100", SiteID: testSiteID, Active: false},
		}},
		&memSiteRepo{sites: sites},
		noopLocker{},
		testPunchCfg,
	)
}

func baseRequest() punch.SubmitPunchRequest {
	return punch.SubmitPunchRequest{
		EmployeeID: testEmployeeID,
		SiteID:     testSiteID,
		Kind:       punch.KindCheckIn,
		OccurredAt: "2025-10-08T11:00:00Z",
		DeviceID:   "kiosk-01",
		ClientIP:   "10.0.0.7",
		UserAgent:  "kiosk/1.0",
	}
}

// ===== SUBMIT =====

func TestSubmit_Success(t *testing.T) {
	repo := &memPunchRepo{}
	svc := newTestService(repo, nil)

	resp, err := svc.Submit(context.Background(), baseRequest())

	require.NoError(t, err)
	assert.Equal(t, testEmployeeID, resp.EmployeeID)
	assert.Equal(t, punch.KindCheckIn, resp.Kind)
	assert.Len(t, resp.IntegrityHash, 64)
	// 11:00 UTC is 08:00 São Paulo on the same civil day.
	assert.True(t, strings.HasPrefix(resp.ProtocolID, "PTO-20251008-"), "protocol id %q", resp.ProtocolID)
	assert.Equal(t, strings.ToUpper(resp.IntegrityHash[:8]), resp.ProtocolID[len("PTO-20251008-"):])
	assert.Len(t, repo.punches, 1)
}

func TestSubmit_ResolvesEmployeeByTaxID(t *testing.T) {
	repo := &memPunchRepo{}
	svc := newTestService(repo, nil)

	req := baseRequest()
	req.EmployeeID = ""
	req.TaxID = "123.456.789-09"

	resp, err := svc.Submit(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, testEmployeeID, resp.EmployeeID)
}

func TestSubmit_IdempotentRetry(t *testing.T) {
	repo := &memPunchRepo{}
	svc := newTestService(repo, nil)

	first, err := svc.Submit(context.Background(), baseRequest())
	require.NoError(t, err)

	second, err := svc.Submit(context.Background(), baseRequest())
	require.NoError(t, err)

	assert.Equal(t, first.ProtocolID, second.ProtocolID)
	assert.Equal(t, first.IntegrityHash, second.IntegrityHash)
	assert.Len(t, repo.punches, 1, "retry must not append a second record")
}

func TestSubmit_DuplicateWindowRejection(t *testing.T) {
	repo := &memPunchRepo{}
	svc := newTestService(repo, nil)

	_, err := svc.Submit(context.Background(), baseRequest())
	require.NoError(t, err)

	// Same (employee, site, kind) 30 seconds later: a re-punch, not a retry.
	req := baseRequest()
	req.OccurredAt = "2025-10-08T11:00:30Z"
	_, err = svc.Submit(context.Background(), req)

	assert.ErrorIs(t, err, punch.ErrDuplicateWindow)
	assert.Len(t, repo.punches, 1)
}

func TestSubmit_OutsideWindowAccepted(t *testing.T) {
	repo := &memPunchRepo{}
	svc := newTestService(repo, nil)

	_, err := svc.Submit(context.Background(), baseRequest())
	require.NoError(t, err)

	req := baseRequest()
	req.OccurredAt = "2025-10-08T11:03:00Z"
	_, err = svc.Submit(context.Background(), req)

	require.NoError(t, err)
	assert.Len(t, repo.punches, 2)
}

func TestSubmit_DifferentKindsNotWindowed(t *testing.T) {
	repo := &memPunchRepo{}
	svc := newTestService(repo, nil)

	_, err := svc.Submit(context.Background(), baseRequest())
	require.NoError(t, err)

	// A break start 30 seconds after the check-in is a different kind and
	// must pass.
	req := baseRequest()
	req.Kind = punch.KindBreakStart
	req.OccurredAt = "2025-10-08T11:00:30Z"
	_, err = svc.Submit(context.Background(), req)

	require.NoError(t, err)
	assert.Len(t, repo.punches, 2)
}

func TestSubmit_UnknownEmployee(t *testing.T) {
	svc := newTestService(&memPunchRepo{}, nil)

	req := baseRequest()
	req.EmployeeID = "0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8bff"
	_, err := svc.Submit(context.Background(), req)

	assert.ErrorIs(t, err, punch.ErrUnknownEmployee)
}

func TestSubmit_InactiveEmployee(t *testing.T) {
	svc := newTestService(&memPunchRepo{}, nil)

	req := baseRequest()
	req.EmployeeID = "0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b99"
	_, err := svc.Submit(context.Background(), req)

	assert.ErrorIs(t, err, punch.ErrUnknownEmployee)
}

func TestSubmit_UnknownSite(t *testing.T) {
	svc := newTestService(&memPunchRepo{}, nil)

	req := baseRequest()
	req.SiteID = "0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8bee"
	_, err := svc.Submit(context.Background(), req)

	assert.ErrorIs(t, err, site.ErrSiteNotFound)
}

func geofencedSite(requireLocation, requireEvidence bool) []site.Site {
	return []site.Site{{
		ID:       testSiteID,
		Name:     "Matriz",
		Timezone: "America/Sao_Paulo",
		// Praça da Sé, São Paulo.
		Latitude:             float64Ptr(-23.5505),
		Longitude:            float64Ptr(-46.6333),
		GeofenceRadiusMeters: intPtr(150),
		RequireLocation:      requireLocation,
		RequireEvidence:      requireEvidence,
	}}
}

func TestSubmit_OutOfGeofence(t *testing.T) {
	svc := newTestService(&memPunchRepo{}, geofencedSite(true, false))

	req := baseRequest()
	// Rio de Janeiro, ~360km away.
	req.Location = &punch.Location{Latitude: -22.9068, Longitude: -43.1729}
	_, err := svc.Submit(context.Background(), req)

	assert.ErrorIs(t, err, punch.ErrOutOfGeofence)
}

func TestSubmit_InsideGeofence(t *testing.T) {
	repo := &memPunchRepo{}
	svc := newTestService(repo, geofencedSite(true, false))

	req := baseRequest()
	req.Location = &punch.Location{Latitude: -23.5506, Longitude: -46.6334}
	_, err := svc.Submit(context.Background(), req)

	require.NoError(t, err)
	assert.Len(t, repo.punches, 1)
}

func TestSubmit_LocationRequired(t *testing.T) {
	svc := newTestService(&memPunchRepo{}, geofencedSite(true, false))

	_, err := svc.Submit(context.Background(), baseRequest())

	assert.ErrorIs(t, err, punch.ErrLocationRequired)
}

func TestSubmit_LocationOptionalWhenNotMandatory(t *testing.T) {
	repo := &memPunchRepo{}
	svc := newTestService(repo, geofencedSite(false, false))

	_, err := svc.Submit(context.Background(), baseRequest())

	require.NoError(t, err)
	assert.Len(t, repo.punches, 1)
}

func TestSubmit_EvidenceRequired(t *testing.T) {
	svc := newTestService(&memPunchRepo{}, geofencedSite(false, true))

	_, err := svc.Submit(context.Background(), baseRequest())

	assert.ErrorIs(t, err, punch.ErrEvidenceRequired)
}

func TestSubmit_EvidenceAccepted(t *testing.T) {
	repo := &memPunchRepo{}
	svc := newTestService(repo, geofencedSite(false, true))

	req := baseRequest()
	req.EvidenceRef = strPtr("evidence/2025/10/08/abc.jpg")
	_, err := svc.Submit(context.Background(), req)

	require.NoError(t, err)
	assert.Len(t, repo.punches, 1)
}

func TestSubmit_InvalidRequest(t *testing.T) {
	svc := newTestService(&memPunchRepo{}, nil)

	req := baseRequest()
	req.Kind = "LUNCH"
	_, err := svc.Submit(context.Background(), req)

	assert.Error(t, err)
}

func TestSubmit_RejectionWritesNothing(t *testing.T) {
	repo := &memPunchRepo{}
	svc := newTestService(repo, geofencedSite(true, true))

	_, err := svc.Submit(context.Background(), baseRequest())

	require.Error(t, err)
	assert.Empty(t, repo.punches)
}

// ===== VERIFY =====

func TestVerify_ValidPunch(t *testing.T) {
	repo := &memPunchRepo{}
	svc := newTestService(repo, nil)

	resp, err := svc.Submit(context.Background(), baseRequest())
	require.NoError(t, err)

	verification, err := svc.Verify(context.Background(), resp.ProtocolID)

	require.NoError(t, err)
	assert.True(t, verification.Valid)
	assert.Equal(t, verification.StoredHash, verification.ComputedHash)
}

func TestVerify_DetectsTampering(t *testing.T) {
	repo := &memPunchRepo{}
	svc := newTestService(repo, nil)

	resp, err := svc.Submit(context.Background(), baseRequest())
	require.NoError(t, err)

	// Simulate direct mutation of a stored field.
	repo.punches[0].OccurredAt = repo.punches[0].OccurredAt.Add(time.Hour)

	verification, err := svc.Verify(context.Background(), resp.ProtocolID)

	require.NoError(t, err)
	assert.False(t, verification.Valid)
	assert.NotEqual(t, verification.StoredHash, verification.ComputedHash)
}

func TestVerify_UnknownProtocol(t *testing.T) {
	svc := newTestService(&memPunchRepo{}, nil)

	_, err := svc.Verify(context.Background(), "PTO-20251008-DEADBEEF")

	assert.ErrorIs(t, err, punch.ErrPunchNotFound)
}

// ===== LISTING =====

func TestListMyPunches(t *testing.T) {
	repo := &memPunchRepo{}
	svc := newTestService(repo, nil)

	for i := 0; i < 3; i++ {
		req := baseRequest()
		req.OccurredAt = fmt.Sprintf("2025-10-08T%02d:00:00Z", 11+i)
		_, err := svc.Submit(context.Background(), req)
		require.NoError(t, err)
	}

	result, err := svc.ListMyPunches(context.Background(), testEmployeeID, punch.PunchFilter{Page: 1, Limit: 20})

	require.NoError(t, err)
	assert.Equal(t, int64(3), result.TotalCount)
	assert.Len(t, result.Punches, 3)
}

func TestListMyPunches_DateFiltersUseSiteCivilDay(t *testing.T) {
	repo := &memPunchRepo{}
	svc := newTestService(repo, nil)

	start := "2025-10-08"
	end := "2025-10-08"
	_, err := svc.ListMyPunches(context.Background(), testEmployeeID, punch.PunchFilter{
		StartDate: &start,
		EndDate:   &end,
		Page:      1,
		Limit:     20,
	})

	require.NoError(t, err)
	// The São Paulo civil day Oct 8 spans 03:00Z Oct 8 to 03:00Z Oct 9, so a
	// 21:30 local punch stays inside the requested day.
	require.NotNil(t, repo.lastFilter.FromInstant)
	require.NotNil(t, repo.lastFilter.ToInstant)
	assert.True(t, repo.lastFilter.FromInstant.Equal(time.Date(2025, 10, 8, 3, 0, 0, 0, time.UTC)))
	assert.True(t, repo.lastFilter.ToInstant.Equal(time.Date(2025, 10, 9, 3, 0, 0, 0, time.UTC)))
}

func TestListMyPunches_UnknownEmployee(t *testing.T) {
	svc := newTestService(&memPunchRepo{}, nil)

	_, err := svc.ListMyPunches(context.Background(), "0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8bff", punch.PunchFilter{Page: 1, Limit: 20})

	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
