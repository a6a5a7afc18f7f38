package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Punch    PunchConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// PunchConfig holds the punch policy knobs. The defaults mirror the legacy
// system; changing them affects which punches are accepted and how totals are
// computed, never the stored records themselves.
type PunchConfig struct {
	ReplayWindow          time.Duration
	BreakSynthesisMinutes int
	ProtocolPrefix        string
	DefaultTimezone       string
}

func Load() (*Config, error) {
	// .env is optional; deployments inject env vars directly.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	dbMaxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	dbMinConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "pontocerto"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(dbMaxConns),
		MinConns: int32(dbMinConns),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Punch policy configuration
	replaySeconds, err := strconv.Atoi(getEnv("PUNCH_REPLAY_WINDOW_SECONDS", "120"))
	if err != nil {
		return nil, fmt.Errorf("invalid PUNCH_REPLAY_WINDOW_SECONDS: %w", err)
	}

	breakSynthesis, err := strconv.Atoi(getEnv("PUNCH_BREAK_SYNTHESIS_MINUTES", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid PUNCH_BREAK_SYNTHESIS_MINUTES: %w", err)
	}

	config.Punch = PunchConfig{
		ReplayWindow:          time.Duration(replaySeconds) * time.Second,
		BreakSynthesisMinutes: breakSynthesis,
		ProtocolPrefix:        getEnv("PUNCH_PROTOCOL_PREFIX", "PTO"),
		DefaultTimezone:       getEnv("PUNCH_DEFAULT_TIMEZONE", "America/Sao_Paulo"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Database.MaxConns < 1 || c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS")
	}
	if c.Punch.ReplayWindow <= 0 {
		return fmt.Errorf("PUNCH_REPLAY_WINDOW_SECONDS must be positive")
	}
	if c.Punch.BreakSynthesisMinutes <= 0 {
		return fmt.Errorf("PUNCH_BREAK_SYNTHESIS_MINUTES must be positive")
	}
	if c.Punch.ProtocolPrefix == "" {
		return fmt.Errorf("PUNCH_PROTOCOL_PREFIX is required")
	}
	if _, err := time.LoadLocation(c.Punch.DefaultTimezone); err != nil {
		return fmt.Errorf("invalid PUNCH_DEFAULT_TIMEZONE: %w", err)
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
