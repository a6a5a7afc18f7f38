package employee

import "time"

// Employee is read-only to this core; administration lives elsewhere. TaxID
// is an input to punch hashing, never a primary key, so renames and profile
// edits never invalidate historical punches.
type Employee struct {
	ID        string
	FullName  string
	TaxID     string
	SiteID    string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
