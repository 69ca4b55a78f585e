// Package common provides shared utilities for fintrack
package common

import (
	"fmt"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for fintrack
type Config struct {
	Environment string        `toml:"environment"`
	Storage     StorageConfig `toml:"storage"`
	Auth        AuthConfig    `toml:"auth"`
	Ledger      LedgerConfig  `toml:"ledger"`
	Reports     ReportsConfig `toml:"reports"`
	Logging     LoggingConfig `toml:"logging"`
}

// Storage backend names.
const (
	BackendMemory    = "memory"
	BackendFile      = "file"
	BackendBadger    = "badger"
	BackendSurrealDB = "surrealdb"
	BackendGCS       = "gcs"
)

// StorageConfig selects the key-value backend and holds per-backend settings.
type StorageConfig struct {
	Backend   string          `toml:"backend"` // memory, file (default), badger, surrealdb, gcs
	File      AreaConfig      `toml:"file"`
	Badger    AreaConfig      `toml:"badger"`
	SurrealDB SurrealDBConfig `toml:"surrealdb"`
	GCS       GCSConfig       `toml:"gcs"`
}

// AreaConfig holds path configuration for a local storage area.
type AreaConfig struct {
	Path string `toml:"path"`
}

// SurrealDBConfig holds connection settings for the SurrealDB backend.
type SurrealDBConfig struct {
	Address   string `toml:"address"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
}

// GCSConfig holds Google Cloud Storage configuration
type GCSConfig struct {
	Bucket          string `toml:"bucket"`
	Prefix          string `toml:"prefix"`           // Optional key prefix within bucket
	CredentialsFile string `toml:"credentials_file"` // Path to service account JSON (optional if using ADC)
}

// AuthConfig holds account and session settings.
type AuthConfig struct {
	JWTSecret         string  `toml:"jwt_secret"`
	SessionExpiry     string  `toml:"session_expiry"` // duration string, default "720h"
	EmailDomain       string  `toml:"email_domain"`   // the one accepted provider domain
	MinPasswordLength int     `toml:"min_password_length"`
	BcryptCost        int     `toml:"bcrypt_cost"`
	LoginRate         float64 `toml:"login_rate"` // sign-in attempts per second
	LoginBurst        int     `toml:"login_burst"`
}

// GetSessionExpiry parses and returns the session token lifetime.
func (c *AuthConfig) GetSessionExpiry() time.Duration {
	d, err := time.ParseDuration(c.SessionExpiry)
	if err != nil || d <= 0 {
		return 720 * time.Hour
	}
	return d
}

// LedgerConfig holds defaults applied to new ledgers.
type LedgerConfig struct {
	DefaultCurrency string `toml:"default_currency"`
}

// ReportsConfig holds export settings.
type ReportsConfig struct {
	OutputDir string `toml:"output_dir"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Format     string   `toml:"format"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Storage: StorageConfig{
			Backend: BackendFile,
			File:    AreaConfig{Path: "data/kv"},
			Badger:  AreaConfig{Path: "data/badger"},
			SurrealDB: SurrealDBConfig{
				Address:   "ws://localhost:8000/rpc",
				Username:  "root",
				Password:  "root",
				Namespace: "fintrack",
				Database:  "fintrack",
			},
		},
		Auth: AuthConfig{
			JWTSecret:         "dev-session-secret-change-me",
			SessionExpiry:     "720h",
			EmailDomain:       "gmail.com",
			MinPasswordLength: 4,
			BcryptCost:        10,
			LoginRate:         1,
			LoginBurst:        5,
		},
		Ledger: LedgerConfig{
			DefaultCurrency: "$",
		},
		Reports: ReportsConfig{
			OutputDir: ".",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			Outputs:    []string{"file"},
			FilePath:   "./logs/fintrack.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Later files override earlier ones
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FINTRACK_ENV"); env != "" {
		config.Environment = env
	}

	if backend := os.Getenv("FINTRACK_STORAGE"); backend != "" {
		config.Storage.Backend = strings.ToLower(backend)
	}

	if path := os.Getenv("FINTRACK_DATA_PATH"); path != "" {
		config.Storage.File.Path = path + "/kv"
		config.Storage.Badger.Path = path + "/badger"
	}

	if v := os.Getenv("FINTRACK_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}

	if level := os.Getenv("FINTRACK_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if v := os.Getenv("FINTRACK_SURREALDB_ADDRESS"); v != "" {
		config.Storage.SurrealDB.Address = v
	}

	if v := os.Getenv("FINTRACK_GCS_BUCKET"); v != "" {
		config.Storage.GCS.Bucket = v
	}
}

// Validate checks values that would otherwise fail late at first use.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendFile, BackendBadger, BackendSurrealDB, BackendGCS:
	case "":
		c.Storage.Backend = BackendFile
	default:
		return fmt.Errorf("unknown storage backend %q (supported: memory, file, badger, surrealdb, gcs)", c.Storage.Backend)
	}
	if c.Storage.Backend == BackendGCS && c.Storage.GCS.Bucket == "" {
		return fmt.Errorf("storage backend gcs requires storage.gcs.bucket")
	}
	if strings.TrimSpace(c.Auth.EmailDomain) == "" {
		return fmt.Errorf("auth.email_domain must not be empty")
	}
	if c.Auth.MinPasswordLength < 1 {
		c.Auth.MinPasswordLength = 4
	}
	if c.Ledger.DefaultCurrency == "" {
		c.Ledger.DefaultCurrency = "$"
	}
	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
