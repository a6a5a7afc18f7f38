package punch

import (
	"context"
)

// PunchService defines business logic for punch ingestion and audit.
type PunchService interface {
	// Submit runs the full ingestion pipeline: policy validation,
	// anti-replay, integrity derivation and durable append. Retrying the
	// exact same request yields the same protocol id and a success response.
	Submit(ctx context.Context, req SubmitPunchRequest) (PunchResponse, error)

	// Verify recomputes the integrity hash of a stored punch from its
	// stored fields and reports whether it matches.
	Verify(ctx context.Context, protocolID string) (VerifyResponse, error)

	// ListMyPunches retrieves the raw punch trail for an employee.
	ListMyPunches(ctx context.Context, employeeID string, filter PunchFilter) (ListPunchesResponse, error)
}
