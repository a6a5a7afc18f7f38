package punch

import "errors"

// Punch domain errors
var (
	// Ingestion rejections (closed taxonomy, each individually actionable)
	ErrUnknownEmployee  = errors.New("employee not found or inactive")
	ErrOutOfGeofence    = errors.New("location is outside the site geofence")
	ErrLocationRequired = errors.New("location is required for this site")
	ErrEvidenceRequired = errors.New("photo evidence is required for this site")
	ErrDuplicateWindow  = errors.New("a punch of the same kind was accepted moments ago")

	// Storage-level duplicate, never surfaced to callers: the ingestion
	// service remaps it to an idempotent success.
	ErrDuplicateProtocol = errors.New("protocol id already recorded")

	// General errors
	ErrPunchNotFound = errors.New("punch record not found")
)
