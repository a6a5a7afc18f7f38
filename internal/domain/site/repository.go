package site

import "context"

// SiteRepository defines read access to the site registry.
type SiteRepository interface {
	// GetByID retrieves a site by id.
	GetByID(ctx context.Context, id string) (Site, error)
}
