package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/fintrack/internal/common"
	"github.com/bobmcallan/fintrack/internal/models"
	"github.com/bobmcallan/fintrack/internal/view"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fintrack.toml")
	content := `
[storage]
backend = "file"

[storage.file]
path = "data/kv"

[auth]
bcrypt_cost = 4
login_rate = 0.0

[logging]
level = "error"
outputs = ["file"]
file_path = "logs/fintrack.log"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewApp_InitializesAllServices(t *testing.T) {
	a, err := NewApp(writeTestConfig(t))
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Config)
	assert.NotNil(t, a.Logger)
	assert.NotNil(t, a.Storage)
	assert.NotNil(t, a.AccountService)
	assert.NotNil(t, a.SessionService)
	assert.NotNil(t, a.LedgerService)
	assert.NotNil(t, a.ReportService)
	assert.NotNil(t, a.Controller)
	assert.False(t, a.StartupTime.IsZero())
	assert.Equal(t, common.BackendFile, a.Storage.Backend())
}

func TestNewApp_ResolvesPathsAgainstConfigDir(t *testing.T) {
	configPath := writeTestConfig(t)
	a, err := NewApp(configPath)
	require.NoError(t, err)
	defer a.Close()

	dir := filepath.Dir(configPath)
	assert.Equal(t, filepath.Join(dir, "data/kv"), a.Config.Storage.File.Path)
	assert.Equal(t, filepath.Join(dir, "logs/fintrack.log"), a.Config.Logging.FilePath)
}

func TestNewApp_SessionSurvivesRestart(t *testing.T) {
	configPath := writeTestConfig(t)
	ctx := context.Background()

	first, err := NewApp(configPath)
	require.NoError(t, err)
	state, err := first.Controller.Dispatch(ctx, view.Command{
		Intent: view.IntentSignUp, Email: "ana@gmail.com", Password: "pass",
	})
	require.NoError(t, err)
	require.Equal(t, view.ScreenDashboard, state.Screen)

	date, err := models.ParseDate("2024-01-01")
	require.NoError(t, err)
	_, err = first.Controller.Dispatch(ctx, view.Command{
		Intent: view.IntentAddTransaction,
		Transaction: models.Transaction{
			Kind: models.KindIncome, Description: "Pay", Category: "Salary",
			Amount: decimal.NewFromInt(1000), Date: date,
		},
	})
	require.NoError(t, err)
	first.Close()

	second, err := NewApp(configPath)
	require.NoError(t, err)
	defer second.Close()

	state, err = second.Controller.Dispatch(ctx, view.Command{Intent: view.IntentRefresh})
	require.NoError(t, err)
	assert.Equal(t, "ana@gmail.com", state.Session.Account.Email)
	assert.True(t, state.Summary.Balance.Equal(decimal.NewFromInt(1000)))
}

func TestNewAppWithConfig_MemoryBackend(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.Storage.Backend = common.BackendMemory
	a, err := NewAppWithConfig(context.Background(), cfg, common.NewSilentLogger())
	require.NoError(t, err)
	defer a.Close()
	assert.Equal(t, common.BackendMemory, a.Storage.Backend())
}

func TestResolveConfigPath_Env(t *testing.T) {
	t.Setenv("FINTRACK_CONFIG", "/etc/fintrack/custom.toml")
	assert.Equal(t, "/etc/fintrack/custom.toml", ResolveConfigPath(""))
	assert.Equal(t, "explicit.toml", ResolveConfigPath("explicit.toml"))
}
