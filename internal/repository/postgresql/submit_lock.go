package postgresql

import (
	"context"

	"github.com/pontocerto/ponto-backend-go/internal/pkg/database"
)

// SubmitSerializer runs a submit-critical section inside a transaction
// holding the per-key advisory lock.
type SubmitSerializer struct {
	db *database.DB
}

func NewSubmitSerializer(db *database.DB) *SubmitSerializer {
	return &SubmitSerializer{db: db}
}

func (s *SubmitSerializer) WithSubmitLock(ctx context.Context, employeeID, siteID, kind string, fn func(ctx context.Context) error) error {
	return WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := AcquireSubmitLock(txCtx, s.db, employeeID, siteID, kind); err != nil {
			return err
		}
		return fn(txCtx)
	})
}
