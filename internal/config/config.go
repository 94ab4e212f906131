package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const Version = "0.1.0"

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Startup ingestion policies.
const (
	IngestFail    = "fail"
	IngestDegrade = "degrade"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string
	DBMaxConns int32
	SQLitePath string
	ListenAddr string

	LogLevel  string // LOG_LEVEL, default "info"
	LogFormat string // LOG_FORMAT, text or json

	// Ingestion
	SeedFile     string // SEED_FILE, empty uses the built-in sample
	IngestPolicy string // INGEST_POLICY, fail or degrade

	// Participation formula
	Epochs           int64  // EPOCHS, default 5
	SlotsPerEpoch    int64  // SLOTS_PER_EPOCH, default 32
	ValidatorSetSize int64  // VALIDATOR_SET_SIZE, default 1024
	RateDenominator  string // RATE_DENOMINATOR, fixed or live
	RateClamp        bool   // RATE_CLAMP, default false
}

// Load reads configuration from environment variables.
// Supports _FILE suffix for Docker secrets (e.g. DB_PASSWORD_FILE).
func Load() (*Config, error) {
	c := &Config{
		DBDriver:        envOrDefault("DB_DRIVER", DriverPostgres),
		DBHost:          envOrDefault("DB_HOST", "localhost"),
		DBPort:          envOrDefault("DB_PORT", "5432"),
		DBName:          envOrDefault("DB_NAME", "participation"),
		DBUser:          envOrDefault("DB_USER", "dba_participation"),
		DBSSLMode:       envOrDefault("DB_SSLMODE", "disable"),
		SQLitePath:      envOrDefault("SQLITE_PATH", "participation.db"),
		ListenAddr:      envOrDefault("LISTEN_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "text"),
		SeedFile:        os.Getenv("SEED_FILE"),
		IngestPolicy:    envOrDefault("INGEST_POLICY", IngestFail),
		RateDenominator: envOrDefault("RATE_DENOMINATOR", "fixed"),
	}

	var err error
	if c.DBMaxConns, err = envInt32("DB_MAX_CONNS", 10); err != nil {
		return nil, err
	}
	if c.Epochs, err = envInt64("EPOCHS", 5); err != nil {
		return nil, err
	}
	if c.SlotsPerEpoch, err = envInt64("SLOTS_PER_EPOCH", 32); err != nil {
		return nil, err
	}
	if c.ValidatorSetSize, err = envInt64("VALIDATOR_SET_SIZE", 1024); err != nil {
		return nil, err
	}
	if c.RateClamp, err = envBool("RATE_CLAMP", false); err != nil {
		return nil, err
	}

	pw, err := envOrFile("DB_PASSWORD")
	if err != nil {
		return nil, fmt.Errorf("DB_PASSWORD: %w", err)
	}
	c.DBPassword = pw

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("DB_DRIVER: unknown driver %q", c.DBDriver)
	}
	switch c.IngestPolicy {
	case IngestFail, IngestDegrade:
	default:
		return fmt.Errorf("INGEST_POLICY: must be %q or %q, got %q", IngestFail, IngestDegrade, c.IngestPolicy)
	}
	switch c.RateDenominator {
	case "fixed", "live":
	default:
		return fmt.Errorf("RATE_DENOMINATOR: must be fixed or live, got %q", c.RateDenominator)
	}
	if c.DBMaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS: must be positive")
	}
	return nil
}

// DSN returns a PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s&pool_max_conns=%d",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode, c.DBMaxConns)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envOrFile reads a value from env var KEY, or from a file at KEY_FILE.
func envOrFile(key string) (string, error) {
	if v := os.Getenv(key); v != "" {
		return v, nil
	}
	fileKey := key + "_FILE"
	if path := os.Getenv(fileKey); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", fileKey, err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return "", nil
}

func envInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envInt32(key string, fallback int32) (int32, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return int32(n), nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
