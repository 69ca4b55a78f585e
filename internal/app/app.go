// Package app wires configuration, storage and services into one App.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/fintrack/internal/common"
	"github.com/bobmcallan/fintrack/internal/interfaces"
	"github.com/bobmcallan/fintrack/internal/services/account"
	"github.com/bobmcallan/fintrack/internal/services/ledger"
	"github.com/bobmcallan/fintrack/internal/services/report"
	"github.com/bobmcallan/fintrack/internal/services/session"
	"github.com/bobmcallan/fintrack/internal/storage"
	"github.com/bobmcallan/fintrack/internal/view"
)

// App holds all initialized services and the view controller.
type App struct {
	Config         *common.Config
	Logger         *common.Logger
	Storage        interfaces.KVStore
	AccountService interfaces.AccountService
	SessionService interfaces.SessionService
	LedgerService  interfaces.LedgerService
	ReportService  interfaces.ReportService
	Controller     *view.Controller
	StartupTime    time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// ResolveConfigPath picks the config file: the given path, FINTRACK_CONFIG,
// fintrack.toml next to the binary, then ./fintrack.toml.
func ResolveConfigPath(configPath string) string {
	if configPath == "" {
		configPath = os.Getenv("FINTRACK_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "fintrack.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "fintrack.toml"
		}
	}
	return configPath
}

// resolvePaths makes relative data and log paths relative to the config
// file's directory so the tool behaves the same from any working directory.
func resolvePaths(config *common.Config, configPath string) {
	if _, err := os.Stat(configPath); err != nil {
		return
	}
	base := filepath.Dir(configPath)
	for _, p := range []*string{
		&config.Storage.File.Path,
		&config.Storage.Badger.Path,
		&config.Logging.FilePath,
		&config.Reports.OutputDir,
	} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

// NewApp loads configuration and initializes storage and services.
// configPath may be empty, in which case ResolveConfigPath decides.
func NewApp(configPath string) (*App, error) {
	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	configPath = ResolveConfigPath(configPath)
	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	resolvePaths(config, configPath)

	logger := common.NewLoggerFromConfig(config.Logging)
	logger.Debug().Str("config", configPath).Msg("Configuration loaded")

	return NewAppWithConfig(context.Background(), config, logger)
}

// NewAppWithConfig initializes storage and services from an already loaded config.
func NewAppWithConfig(ctx context.Context, config *common.Config, logger *common.Logger) (*App, error) {
	startupStart := time.Now()

	kv, err := storage.NewKVStore(ctx, logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	ledgers := ledger.NewService(kv, logger, config)
	accounts := account.NewService(kv, ledgers, logger, config)
	sessions := session.NewService(kv, accounts, logger, config)
	reports := report.NewService(logger)

	a := &App{
		Config:         config,
		Logger:         logger,
		Storage:        kv,
		AccountService: accounts,
		SessionService: sessions,
		LedgerService:  ledgers,
		ReportService:  reports,
		Controller:     view.NewController(accounts, sessions, ledgers, reports, logger),
		StartupTime:    time.Now(),
	}

	logger.Debug().Str("backend", kv.Backend()).Dur("startup", time.Since(startupStart)).Msg("App initialized")
	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
		}
		a.Storage = nil
	}
}
