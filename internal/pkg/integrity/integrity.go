// Package integrity derives the tamper-evidence artifacts of a punch: the
// canonical representation, its SHA-256 digest, and the human-readable
// protocol id. Everything here is a pure function; historical verifiability
// depends on the canonical field order and normalization never changing.
package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/pontocerto/ponto-backend-go/internal/pkg/civil"
)

// delimiter separates canonical fields. None of the fields may contain it:
// instants and tax ids are normalized, refs are UUIDs, kinds are a closed
// enum, and IPs/device ids never carry pipes.
const delimiter = "|"

// Fields is the canonical input of the digest. Every field except OccurredAt
// is hashed as an opaque string; OccurredAt is rendered as an RFC 3339 UTC
// instant and TaxID is reduced to its digits.
type Fields struct {
	OccurredAt time.Time
	TaxID      string
	SiteRef    string
	Kind       string
	ClientIP   string
	DeviceID   string
	KioskCode  string
}

// CanonicalString builds the exact byte sequence that is digested. Field
// order is part of the wire contract.
func CanonicalString(f Fields) string {
	parts := []string{
		f.OccurredAt.UTC().Format(time.RFC3339),
		NormalizeTaxID(f.TaxID),
		f.SiteRef,
		f.Kind,
		f.ClientIP,
		f.DeviceID,
		f.KioskCode,
	}
	return strings.Join(parts, delimiter)
}

// ComputeHash returns the lowercase hex SHA-256 digest of the canonical
// string.
func ComputeHash(f Fields) string {
	sum := sha256.Sum256([]byte(CanonicalString(f)))
	return hex.EncodeToString(sum[:])
}

// ComputeProtocolID builds the display identifier: prefix, the punch date in
// the site's civil timezone, and the first 8 hex characters of the digest
// uppercased. The truncation is an audit reference, not a security boundary;
// verification always recomputes the full digest.
func ComputeProtocolID(prefix string, occurredAt time.Time, loc *time.Location, hash string) string {
	date := civil.DateOf(occurredAt, loc)
	return prefix + "-" + date.Compact() + "-" + strings.ToUpper(hash[:8])
}

// NormalizeTaxID strips everything but digits, so formatted and bare CPF
// values hash identically.
func NormalizeTaxID(taxID string) string {
	var b strings.Builder
	b.Grow(len(taxID))
	for _, r := range taxID {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
