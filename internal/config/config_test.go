package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "test-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, int32(25), cfg.Database.MaxConns)
	assert.Equal(t, int32(5), cfg.Database.MinConns)
	assert.Equal(t, "PTO", cfg.Punch.ProtocolPrefix)
	assert.Equal(t, "America/Sao_Paulo", cfg.Punch.DefaultTimezone)
	assert.Equal(t, 60, cfg.Punch.BreakSynthesisMinutes)
	assert.Equal(t, 120*time.Second, cfg.Punch.ReplayWindow)
}

func TestLoad_PoolSizingFromEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_MAX_CONNS", "50")
	t.Setenv("DB_MIN_CONNS", "10")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, int32(50), cfg.Database.MaxConns)
	assert.Equal(t, int32(10), cfg.Database.MinConns)
}

func TestLoad_RejectsInvertedPoolSizing(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_MAX_CONNS", "5")
	t.Setenv("DB_MIN_CONNS", "10")

	_, err := Load()

	assert.Error(t, err)
}

func TestLoad_MissingPassword(t *testing.T) {
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	_, err := Load()

	assert.Error(t, err)
}

func TestLoad_InvalidTimezone(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PUNCH_DEFAULT_TIMEZONE", "Not/AZone")

	_, err := Load()

	assert.Error(t, err)
}

func TestDatabaseURL(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "ponto",
		Password: "pw",
		Name:     "pontocerto",
		SSLMode:  "require",
	}}

	assert.Equal(t,
		"postgres://ponto:pw@db.internal:5433/pontocerto?sslmode=require",
		cfg.DatabaseURL(),
	)
}
