package employee

import "context"

// EmployeeRepository defines read access to the employee registry.
type EmployeeRepository interface {
	// GetByID retrieves an employee by id.
	GetByID(ctx context.Context, id string) (Employee, error)

	// GetByTaxID retrieves an employee by normalized tax id (digits only).
	GetByTaxID(ctx context.Context, taxID string) (Employee, error)
}
