package view

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bobmcallan/fintrack/internal/common"
	"github.com/bobmcallan/fintrack/internal/models"
	"github.com/bobmcallan/fintrack/internal/services/account"
	"github.com/bobmcallan/fintrack/internal/services/ledger"
	"github.com/bobmcallan/fintrack/internal/services/report"
	"github.com/bobmcallan/fintrack/internal/services/session"
	"github.com/bobmcallan/fintrack/internal/storage"
)

func newTestController(t *testing.T) *Controller {
	t.Helper()
	cfg := common.NewDefaultConfig()
	cfg.Auth.BcryptCost = bcrypt.MinCost
	cfg.Auth.LoginRate = 0

	kv := storage.NewMemoryStore()
	logger := common.NewSilentLogger()
	ledgers := ledger.NewService(kv, logger, cfg)
	accounts := account.NewService(kv, ledgers, logger, cfg)
	sessions := session.NewService(kv, accounts, logger, cfg)
	return NewController(accounts, sessions, ledgers, report.NewService(logger), logger)
}

func signUp(t *testing.T, c *Controller) *State {
	t.Helper()
	state, err := c.Dispatch(context.Background(), Command{
		Intent: IntentSignUp, Email: "ana@gmail.com", Password: "pass", DisplayName: "Ana", Remember: true,
	})
	require.NoError(t, err)
	return state
}

func addCmd(kind models.TransactionKind, amount int64, category string) Command {
	date, _ := models.ParseDate("2024-01-01")
	return Command{
		Intent: IntentAddTransaction,
		Transaction: models.Transaction{
			Kind: kind, Description: category, Category: category,
			Amount: decimal.NewFromInt(amount), Date: date,
		},
	}
}

func TestDispatch_RequiresSession(t *testing.T) {
	c := newTestController(t)
	for _, intent := range []Intent{IntentRefresh, IntentAddTransaction, IntentDeleteTransaction, IntentSaveSettings, IntentResetData, IntentExport} {
		t.Run(intent.String(), func(t *testing.T) {
			state, err := c.Dispatch(context.Background(), Command{Intent: intent})
			assert.ErrorIs(t, err, models.ErrNoSession)
			require.NotNil(t, state)
			assert.Equal(t, ScreenUnauthenticated, state.Screen)
		})
	}
}

func TestDispatch_SignUpShowsEmptyDashboard(t *testing.T) {
	c := newTestController(t)
	state := signUp(t, c)

	assert.Equal(t, ScreenDashboard, state.Screen)
	assert.Equal(t, "ana@gmail.com", state.Session.Account.Email)
	assert.True(t, state.Summary.TotalIncome.IsZero())
	assert.True(t, state.Summary.Balance.IsZero())
	assert.Empty(t, state.Recent)
	assert.Equal(t, "Welcome, Ana", state.Notice)
}

func TestDispatch_SignUpInvalidEmailStaysSignedOut(t *testing.T) {
	c := newTestController(t)
	state, err := c.Dispatch(context.Background(), Command{Intent: IntentSignUp, Email: "user@yahoo.com", Password: "pass"})
	assert.ErrorIs(t, err, models.ErrInvalidEmail)
	assert.Equal(t, ScreenUnauthenticated, state.Screen)
}

func TestDispatch_AddDeleteAndSummary(t *testing.T) {
	c := newTestController(t)
	ctx := context.Background()
	signUp(t, c)

	_, err := c.Dispatch(ctx, addCmd(models.KindIncome, 1000, "Salary"))
	require.NoError(t, err)
	state, err := c.Dispatch(ctx, addCmd(models.KindExpense, 300, "Rent"))
	require.NoError(t, err)

	assert.True(t, state.Summary.Balance.Equal(decimal.NewFromInt(700)))
	require.Len(t, state.Recent, 2)
	assert.Equal(t, "Rent", state.Recent[0].Category)
	require.Len(t, state.Expense, 1)
	assert.Equal(t, "Rent", state.Expense[0].Category)

	state, err = c.Dispatch(ctx, Command{Intent: IntentDeleteTransaction, TransactionID: state.Recent[0].ID})
	require.NoError(t, err)
	assert.True(t, state.Summary.Balance.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, "Deleted transaction #2", state.Notice)

	state, err = c.Dispatch(ctx, Command{Intent: IntentDeleteTransaction, TransactionID: 999})
	require.NoError(t, err)
	assert.Len(t, state.Ledger.Transactions, 1)
	assert.Equal(t, "No transaction #999", state.Notice)
}

func TestDispatch_InvalidTransactionKeepsDashboard(t *testing.T) {
	c := newTestController(t)
	signUp(t, c)

	cmd := addCmd(models.KindExpense, 0, "Food")
	state, err := c.Dispatch(context.Background(), cmd)
	assert.ErrorIs(t, err, models.ErrInvalidTransaction)
	assert.Equal(t, ScreenDashboard, state.Screen)
	assert.Empty(t, state.Ledger.Transactions)
}

func TestDispatch_RecentIsCapped(t *testing.T) {
	c := newTestController(t)
	signUp(t, c)
	var state *State
	var err error
	for i := 0; i < RecentLimit+3; i++ {
		state, err = c.Dispatch(context.Background(), addCmd(models.KindExpense, 1, "Food"))
		require.NoError(t, err)
	}
	assert.Len(t, state.Recent, RecentLimit)
	assert.Len(t, state.Ledger.Transactions, RecentLimit+3)
}

func TestDispatch_SettingsAndReset(t *testing.T) {
	c := newTestController(t)
	ctx := context.Background()
	signUp(t, c)

	state, err := c.Dispatch(ctx, Command{Intent: IntentSaveSettings, DisplayName: "Ana M", Currency: "GBP"})
	require.NoError(t, err)
	assert.Equal(t, "Ana M", state.Ledger.Profile.DisplayName)
	assert.Equal(t, "£", state.Ledger.Profile.CurrencySymbol)
	assert.Equal(t, "Ana", state.Session.Account.DisplayName)

	_, err = c.Dispatch(ctx, addCmd(models.KindIncome, 5, "Gift"))
	require.NoError(t, err)

	_, err = c.Dispatch(ctx, Command{Intent: IntentResetData})
	assert.ErrorIs(t, err, ErrConfirmationRequired)

	state, err = c.Dispatch(ctx, Command{Intent: IntentResetData, Confirm: true})
	require.NoError(t, err)
	assert.Empty(t, state.Ledger.Transactions)
	assert.Equal(t, "$", state.Ledger.Profile.CurrencySymbol)
}

func TestDispatch_Export(t *testing.T) {
	c := newTestController(t)
	ctx := context.Background()
	signUp(t, c)
	_, err := c.Dispatch(ctx, addCmd(models.KindIncome, 10, "Gift"))
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = c.Dispatch(ctx, Command{Intent: IntentExport, Format: report.FormatCSV, Output: &buf})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(buf.String(), "Date,Type,Category,Description,Amount\n"))

	_, err = c.Dispatch(ctx, Command{Intent: IntentExport, Format: report.FormatCSV})
	assert.Error(t, err)
}

func TestDispatch_SignOutThenSignIn(t *testing.T) {
	c := newTestController(t)
	ctx := context.Background()
	signUp(t, c)

	state, err := c.Dispatch(ctx, Command{Intent: IntentSignOut})
	require.NoError(t, err)
	assert.Equal(t, ScreenUnauthenticated, state.Screen)
	require.Len(t, state.Remembered, 1)
	assert.Equal(t, "ana@gmail.com", state.Remembered[0].Email)

	_, err = c.Dispatch(ctx, Command{Intent: IntentRefresh})
	assert.ErrorIs(t, err, models.ErrNoSession)

	_, err = c.Dispatch(ctx, Command{Intent: IntentSignIn, Email: "ana@gmail.com", Password: "nope"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	state, err = c.Dispatch(ctx, Command{Intent: IntentSignIn, Email: "ana@gmail.com", Password: "pass"})
	require.NoError(t, err)
	assert.Equal(t, ScreenDashboard, state.Screen)
}

func TestDispatch_ProviderFlow(t *testing.T) {
	c := newTestController(t)
	ctx := context.Background()

	_, err := c.Dispatch(ctx, Command{Intent: IntentProviderSignIn, Email: "bo@gmail.com"})
	assert.ErrorIs(t, err, models.ErrAccountNotFound)

	state, err := c.Dispatch(ctx, Command{Intent: IntentProviderSignUp, Email: "bo@gmail.com"})
	require.NoError(t, err)
	assert.Equal(t, "bo", state.Ledger.Profile.DisplayName)
}

func TestIntentString(t *testing.T) {
	assert.Equal(t, "add-transaction", IntentAddTransaction.String())
	assert.Equal(t, "intent(99)", Intent(99).String())
	assert.Equal(t, "dashboard", ScreenDashboard.String())
}
