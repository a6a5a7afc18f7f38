package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pontocerto/ponto-backend-go/internal/domain/punch"
	"github.com/pontocerto/ponto-backend-go/internal/pkg/database"
)

type punchRepository struct {
	db *database.DB
}

func NewPunchRepository(db *database.DB) punch.PunchRepository {
	return &punchRepository{db: db}
}

const punchColumns = `
	id, employee_id, site_id, kind, occurred_at,
	latitude, longitude, accuracy_meters,
	evidence_ref, kiosk_code, device_id, client_ip, user_agent,
	integrity_hash, protocol_id, recorded_by, created_at`

func scanPunch(row pgx.Row) (punch.Punch, error) {
	var p punch.Punch
	err := row.Scan(
		&p.ID, &p.EmployeeID, &p.SiteID, &p.Kind, &p.OccurredAt,
		&p.Latitude, &p.Longitude, &p.AccuracyMeters,
		&p.EvidenceRef, &p.KioskCode, &p.DeviceID, &p.ClientIP, &p.UserAgent,
		&p.IntegrityHash, &p.ProtocolID, &p.RecordedBy, &p.CreatedAt,
	)
	return p, err
}

// Append implements punch.PunchRepository.
func (r *punchRepository) Append(ctx context.Context, p punch.Punch) (punch.Punch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO punches (
			id, employee_id, site_id, kind, occurred_at,
			latitude, longitude, accuracy_meters,
			evidence_ref, kiosk_code, device_id, client_ip, user_agent,
			integrity_hash, protocol_id, recorded_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		) RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		p.ID,
		p.EmployeeID,
		p.SiteID,
		p.Kind,
		p.OccurredAt,
		p.Latitude,
		p.Longitude,
		p.AccuracyMeters,
		p.EvidenceRef,
		p.KioskCode,
		p.DeviceID,
		p.ClientIP,
		p.UserAgent,
		p.IntegrityHash,
		p.ProtocolID,
		p.RecordedBy,
	).Scan(&p.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "punches_protocol_id_key" {
			return punch.Punch{}, punch.ErrDuplicateProtocol
		}
		return punch.Punch{}, fmt.Errorf("failed to append punch: %w", err)
	}

	return p, nil
}

// GetByProtocolID implements punch.PunchRepository.
func (r *punchRepository) GetByProtocolID(ctx context.Context, protocolID string) (punch.Punch, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + punchColumns + ` FROM punches WHERE protocol_id = $1`

	p, err := scanPunch(q.QueryRow(ctx, query, protocolID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return punch.Punch{}, punch.ErrPunchNotFound
		}
		return punch.Punch{}, fmt.Errorf("failed to get punch by protocol id: %w", err)
	}

	return p, nil
}

// ListRange implements punch.PunchRepository. The seq tiebreak keeps the
// order stable for punches sharing the same instant.
func (r *punchRepository) ListRange(ctx context.Context, employeeID string, from, to time.Time) ([]punch.Punch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + punchColumns + `
		FROM punches
		WHERE employee_id = $1
		  AND occurred_at >= $2
		  AND occurred_at < $3
		ORDER BY occurred_at ASC, seq ASC
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list punches in range: %w", err)
	}
	defer rows.Close()

	var punches []punch.Punch
	for rows.Next() {
		p, err := scanPunch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan punch: %w", err)
		}
		punches = append(punches, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate punches: %w", err)
	}

	return punches, nil
}

// LastByKind implements punch.PunchRepository.
func (r *punchRepository) LastByKind(ctx context.Context, employeeID, siteID string, kind punch.Kind) (*punch.Punch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + punchColumns + `
		FROM punches
		WHERE employee_id = $1
		  AND site_id = $2
		  AND kind = $3
		ORDER BY occurred_at DESC, seq DESC
		LIMIT 1
	`

	p, err := scanPunch(q.QueryRow(ctx, query, employeeID, siteID, kind))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last punch by kind: %w", err)
	}

	return &p, nil
}

// ListByEmployee implements punch.PunchRepository.
func (r *punchRepository) ListByEmployee(ctx context.Context, employeeID string, filter punch.PunchFilter) ([]punch.Punch, int64, error) {
	q := GetQuerier(ctx, r.db)

	// Build WHERE clause
	baseWhere := "employee_id = $1"
	args := []interface{}{employeeID}
	argIdx := 2

	if filter.FromInstant != nil {
		baseWhere += fmt.Sprintf(" AND occurred_at >= $%d", argIdx)
		args = append(args, *filter.FromInstant)
		argIdx++
	}
	if filter.ToInstant != nil {
		baseWhere += fmt.Sprintf(" AND occurred_at < $%d", argIdx)
		args = append(args, *filter.ToInstant)
		argIdx++
	}
	if filter.Kind != nil {
		baseWhere += fmt.Sprintf(" AND kind = $%d", argIdx)
		args = append(args, *filter.Kind)
		argIdx++
	}

	// Count total
	countQuery := "SELECT COUNT(*) FROM punches WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count punches: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM punches
		WHERE %s
		ORDER BY occurred_at DESC, seq DESC
		LIMIT $%d OFFSET $%d
	`, punchColumns, baseWhere, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list punches: %w", err)
	}
	defer rows.Close()

	var punches []punch.Punch
	for rows.Next() {
		p, err := scanPunch(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan punch: %w", err)
		}
		punches = append(punches, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate punches: %w", err)
	}

	return punches, total, nil
}
