package punch

import (
	"context"
	"time"
)

// PunchRepository defines data access for the append-only punch store.
// There is no Update and no Delete: the store is the audit trail.
type PunchRepository interface {
	// Append inserts a punch. Returns ErrDuplicateProtocol when a punch with
	// the same protocol id is already recorded.
	Append(ctx context.Context, p Punch) (Punch, error)

	// GetByProtocolID retrieves the punch recorded under a protocol id.
	GetByProtocolID(ctx context.Context, protocolID string) (Punch, error)

	// ListRange retrieves all punches for an employee with
	// from <= occurred_at < to, ordered by occurred_at ascending with ties
	// broken by insertion order.
	ListRange(ctx context.Context, employeeID string, from, to time.Time) ([]Punch, error)

	// LastByKind retrieves the most recent punch for (employee, site, kind),
	// or nil when none exists. Used by the anti-replay check.
	LastByKind(ctx context.Context, employeeID, siteID string, kind Kind) (*Punch, error)

	// ListByEmployee retrieves punches for an employee with filters and
	// pagination, newest first.
	ListByEmployee(ctx context.Context, employeeID string, filter PunchFilter) ([]Punch, int64, error)
}
