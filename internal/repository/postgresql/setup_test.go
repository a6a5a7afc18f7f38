package postgresql_test

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pontocerto/ponto-backend-go/internal/domain/punch"
	"github.com/pontocerto/ponto-backend-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

var testDB *database.DB

func init() {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		// Tests skip when no test database is configured.
		return
	}

	if err := database.Migrate(context.Background(), dsn); err != nil {
		panic("failed to migrate test database: " + err.Error())
	}

	var err error
	testDB, err = database.NewPostgreSQLDB(dsn, 4, 1)
	if err != nil {
		panic("failed to connect to test database: " + err.Error())
	}
}

// requireTestDB skips the test unless TEST_DATABASE_URL is set.
func requireTestDB(t *testing.T) {
	t.Helper()
	if testDB == nil {
		t.Skip("TEST_DATABASE_URL not set; skipping database integration test")
	}
}

func cleanupTestData(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	for _, table := range []string{"punches", "employees", "sites"} {
		_, err := testDB.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err)
	}
}

func createTestSite(t *testing.T, ctx context.Context) string {
	t.Helper()

	var siteID string
	err := testDB.QueryRow(ctx, `
		INSERT INTO sites (id, name, timezone)
		VALUES (gen_random_uuid(), 'Matriz', 'America/Sao_Paulo')
		RETURNING id
	`).Scan(&siteID)
	require.NoError(t, err)
	return siteID
}

func createTestEmployee(t *testing.T, ctx context.Context, siteID, taxID string) string {
	t.Helper()

	var employeeID string
	err := testDB.QueryRow(ctx, `
		INSERT INTO employees (id, full_name, tax_id, site_id, active)
		VALUES (gen_random_uuid(), 'Maria Souza', $1, $2, TRUE)
		RETURNING id
	`, taxID, siteID).Scan(&employeeID)
	require.NoError(t, err)
	return employeeID
}

// newTestPunch builds a punch with a hash and protocol id derived from key,
// so distinct keys never collide on the unique constraint.
func newTestPunch(employeeID, siteID string, kind punch.Kind, occurredAt time.Time, key string) punch.Punch {
	hash := fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
	return punch.Punch{
		ID:            uuid.NewString(),
		EmployeeID:    employeeID,
		SiteID:        siteID,
		Kind:          kind,
		OccurredAt:    occurredAt.UTC(),
		DeviceID:      "kiosk-01",
		ClientIP:      "10.0.0.7",
		UserAgent:     "kiosk/1.0",
		IntegrityHash: hash,
		ProtocolID:    fmt.Sprintf("PTO-%s-%s", occurredAt.UTC().Format("20060102"), hash[:8]),
	}
}
