package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Storage.Backend != BackendFile {
		t.Errorf("Storage.Backend default = %q, want %q", cfg.Storage.Backend, BackendFile)
	}
	if cfg.Auth.EmailDomain != "gmail.com" {
		t.Errorf("Auth.EmailDomain default = %q, want gmail.com", cfg.Auth.EmailDomain)
	}
	if cfg.Auth.MinPasswordLength != 4 {
		t.Errorf("Auth.MinPasswordLength default = %d, want 4", cfg.Auth.MinPasswordLength)
	}
	if cfg.Ledger.DefaultCurrency != "$" {
		t.Errorf("Ledger.DefaultCurrency default = %q, want $", cfg.Ledger.DefaultCurrency)
	}
}

func TestConfig_StorageEnvOverride(t *testing.T) {
	t.Setenv("FINTRACK_STORAGE", "MEMORY")
	t.Setenv("FINTRACK_DATA_PATH", "/tmp/ft")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Storage.Backend != BackendMemory {
		t.Errorf("Storage.Backend = %q after env override, want %q", cfg.Storage.Backend, BackendMemory)
	}
	if cfg.Storage.File.Path != "/tmp/ft/kv" {
		t.Errorf("Storage.File.Path = %q, want /tmp/ft/kv", cfg.Storage.File.Path)
	}
	if cfg.Storage.Badger.Path != "/tmp/ft/badger" {
		t.Errorf("Storage.Badger.Path = %q, want /tmp/ft/badger", cfg.Storage.Badger.Path)
	}
}

func TestConfig_JWTSecretEnvOverride(t *testing.T) {
	t.Setenv("FINTRACK_JWT_SECRET", "from-env")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Auth.JWTSecret != "from-env" {
		t.Errorf("Auth.JWTSecret = %q, want %q", cfg.Auth.JWTSecret, "from-env")
	}
}

func TestConfig_LoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fintrack.toml")
	content := `
environment = "production"

[storage]
backend = "badger"

[storage.badger]
path = "/var/lib/fintrack"

[auth]
email_domain = "example.org"
session_expiry = "1h"

[ledger]
default_currency = "€"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !cfg.IsProduction() {
		t.Error("expected production environment")
	}
	if cfg.Storage.Backend != BackendBadger || cfg.Storage.Badger.Path != "/var/lib/fintrack" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Auth.EmailDomain != "example.org" {
		t.Errorf("Auth.EmailDomain = %q", cfg.Auth.EmailDomain)
	}
	if cfg.Auth.GetSessionExpiry() != time.Hour {
		t.Errorf("GetSessionExpiry = %v, want 1h", cfg.Auth.GetSessionExpiry())
	}
	if cfg.Ledger.DefaultCurrency != "€" {
		t.Errorf("Ledger.DefaultCurrency = %q", cfg.Ledger.DefaultCurrency)
	}
	// Untouched sections keep defaults
	if cfg.Auth.MinPasswordLength != 4 {
		t.Errorf("Auth.MinPasswordLength = %d, want default 4", cfg.Auth.MinPasswordLength)
	}
}

func TestConfig_MissingFileIsSkipped(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Storage.Backend != BackendFile {
		t.Errorf("Storage.Backend = %q, want default", cfg.Storage.Backend)
	}
}

func TestConfig_ValidateUnknownBackend(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Storage.Backend = "redis"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestConfig_ValidateGCSNeedsBucket(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Storage.Backend = BackendGCS
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for gcs without bucket")
	}
	cfg.Storage.GCS.Bucket = "fintrack-data"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_GetSessionExpiryFallback(t *testing.T) {
	c := AuthConfig{SessionExpiry: "soon"}
	if got := c.GetSessionExpiry(); got != 720*time.Hour {
		t.Errorf("GetSessionExpiry = %v, want 720h", got)
	}
}
