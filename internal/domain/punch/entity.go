package punch

import (
	"time"
)

// Kind is the closed set of punch event types.
type Kind string

const (
	KindCheckIn       Kind = "CHECK_IN"
	KindCheckOut      Kind = "CHECK_OUT"
	KindBreakStart    Kind = "BREAK_START"
	KindBreakEnd      Kind = "BREAK_END"
	KindOvertimeStart Kind = "OVERTIME_START"
	KindOvertimeEnd   Kind = "OVERTIME_END"
)

// Kinds lists every valid kind, in canonical order.
var Kinds = []Kind{
	KindCheckIn,
	KindCheckOut,
	KindBreakStart,
	KindBreakEnd,
	KindOvertimeStart,
	KindOvertimeEnd,
}

func (k Kind) IsValid() bool {
	switch k {
	case KindCheckIn, KindCheckOut, KindBreakStart, KindBreakEnd,
		KindOvertimeStart, KindOvertimeEnd:
		return true
	}
	return false
}

// Punch is one immutable, individually stamped check event. Once persisted
// it is never updated or deleted; corrections are new punches.
type Punch struct {
	ID         string
	EmployeeID string
	SiteID     string
	Kind       Kind
	OccurredAt time.Time // always UTC

	Latitude       *float64
	Longitude      *float64
	AccuracyMeters *float64

	EvidenceRef *string
	KioskCode   *string
	DeviceID    string
	ClientIP    string
	UserAgent   string

	IntegrityHash string
	ProtocolID    string
	RecordedBy    *string

	CreatedAt time.Time
}
