package site

import "time"

// Site is a workplace with its civil timezone and punch acceptance policy.
// Read-only to this core.
type Site struct {
	ID       string
	Name     string
	Timezone string // IANA identifier, e.g. America/Sao_Paulo

	// Geofence center and radius; all three are set together or not at all.
	Latitude             *float64
	Longitude            *float64
	GeofenceRadiusMeters *int

	RequireLocation bool
	RequireEvidence bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasGeofence reports whether the site enforces a geofence.
func (s Site) HasGeofence() bool {
	return s.Latitude != nil && s.Longitude != nil && s.GeofenceRadiusMeters != nil
}
