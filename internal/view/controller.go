// Package view is the typed view-model between a front end and the services.
// Front ends build a Command, call Dispatch, and render the returned State.
package view

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/bobmcallan/fintrack/internal/common"
	"github.com/bobmcallan/fintrack/internal/interfaces"
	"github.com/bobmcallan/fintrack/internal/models"
)

// Intent is a user action.
type Intent int

const (
	IntentRefresh Intent = iota
	IntentSignUp
	IntentSignIn
	IntentProviderSignUp
	IntentProviderSignIn
	IntentSignOut
	IntentAddTransaction
	IntentDeleteTransaction
	IntentSaveSettings
	IntentResetData
	IntentExport
)

var intentNames = map[Intent]string{
	IntentRefresh:           "refresh",
	IntentSignUp:            "sign-up",
	IntentSignIn:            "sign-in",
	IntentProviderSignUp:    "provider-sign-up",
	IntentProviderSignIn:    "provider-sign-in",
	IntentSignOut:           "sign-out",
	IntentAddTransaction:    "add-transaction",
	IntentDeleteTransaction: "delete-transaction",
	IntentSaveSettings:      "save-settings",
	IntentResetData:         "reset-data",
	IntentExport:            "export",
}

func (i Intent) String() string {
	if name, ok := intentNames[i]; ok {
		return name
	}
	return fmt.Sprintf("intent(%d)", int(i))
}

// Screen is the view a front end should show.
type Screen int

const (
	ScreenUnauthenticated Screen = iota
	ScreenDashboard
)

func (s Screen) String() string {
	if s == ScreenDashboard {
		return "dashboard"
	}
	return "unauthenticated"
}

// RecentLimit is the number of transactions shown on the dashboard.
const RecentLimit = 5

// ErrConfirmationRequired is returned by destructive intents dispatched
// without Confirm set.
var ErrConfirmationRequired = errors.New("confirmation required")

// Command carries an intent and the fields it reads.
type Command struct {
	Intent Intent

	// sign-up / sign-in
	Email       string
	Password    string
	DisplayName string
	Remember    bool

	// add / delete
	Transaction   models.Transaction
	TransactionID int64

	// settings; DisplayName is reused for the profile name
	Currency string

	// reset
	Confirm bool

	// export
	Format string
	Output io.Writer
}

// State is everything a front end needs to render after a command.
type State struct {
	Screen     Screen
	Session    *models.SessionContext
	Ledger     *models.Ledger
	Summary    models.Summary
	Income     []models.CategoryTotal
	Expense    []models.CategoryTotal
	Recent     []models.Transaction
	Remembered []models.RememberedLogin
	Notice     string
}

// Controller routes commands to the services.
type Controller struct {
	accounts interfaces.AccountService
	sessions interfaces.SessionService
	ledgers  interfaces.LedgerService
	reports  interfaces.ReportService
	logger   *common.Logger
}

// NewController creates a controller over the given services
func NewController(
	accounts interfaces.AccountService,
	sessions interfaces.SessionService,
	ledgers interfaces.LedgerService,
	reports interfaces.ReportService,
	logger *common.Logger,
) *Controller {
	return &Controller{
		accounts: accounts,
		sessions: sessions,
		ledgers:  ledgers,
		reports:  reports,
		logger:   logger,
	}
}

// Dispatch runs one command. On error the returned state still describes
// what to show: the sign-in screen when there is no session, otherwise the
// screen the user was on.
func (c *Controller) Dispatch(ctx context.Context, cmd Command) (*State, error) {
	c.logger.Debug().Str("intent", cmd.Intent.String()).Msg("Dispatch")

	switch cmd.Intent {
	case IntentSignUp, IntentSignIn, IntentProviderSignUp, IntentProviderSignIn:
		return c.authenticate(ctx, cmd)
	case IntentSignOut:
		if err := c.sessions.Logout(ctx); err != nil {
			return nil, err
		}
		state := c.unauthenticated(ctx)
		state.Notice = "Signed out"
		return state, nil
	}

	sc, err := c.sessions.Current(ctx)
	if err != nil {
		if errors.Is(err, models.ErrNoSession) {
			return c.unauthenticated(ctx), err
		}
		return nil, err
	}
	ctx = common.WithSession(ctx, sc)

	ledger, err := c.ledgers.Load(ctx, sc.Account)
	if err != nil {
		return nil, err
	}

	notice := ""
	switch cmd.Intent {
	case IntentRefresh:

	case IntentAddTransaction:
		next, err := c.ledgers.AddTransaction(ctx, ledger, cmd.Transaction)
		if err != nil {
			return c.dashboard(sc, ledger, ""), err
		}
		ledger = next
		notice = fmt.Sprintf("Added %s #%d", next.Transactions[0].Kind, next.Transactions[0].ID)

	case IntentDeleteTransaction:
		next, err := c.ledgers.DeleteTransaction(ctx, ledger, cmd.TransactionID)
		if err != nil {
			return c.dashboard(sc, ledger, ""), err
		}
		if next == ledger {
			notice = fmt.Sprintf("No transaction #%d", cmd.TransactionID)
		} else {
			notice = fmt.Sprintf("Deleted transaction #%d", cmd.TransactionID)
		}
		ledger = next

	case IntentSaveSettings:
		next, err := c.ledgers.UpdateProfile(ctx, ledger, cmd.DisplayName, cmd.Currency)
		if err != nil {
			return c.dashboard(sc, ledger, ""), err
		}
		ledger = next
		notice = "Settings saved"

	case IntentResetData:
		if !cmd.Confirm {
			return c.dashboard(sc, ledger, ""), ErrConfirmationRequired
		}
		next, err := c.ledgers.ResetAllData(ctx, sc.Account)
		if err != nil {
			return c.dashboard(sc, ledger, ""), err
		}
		ledger = next
		notice = "All data cleared"

	case IntentExport:
		if cmd.Output == nil {
			return c.dashboard(sc, ledger, ""), fmt.Errorf("export: no output")
		}
		if err := c.reports.Export(ctx, ledger, cmd.Format, cmd.Output); err != nil {
			return c.dashboard(sc, ledger, ""), err
		}
		notice = "Exported " + cmd.Format

	default:
		return nil, fmt.Errorf("unknown intent %s", cmd.Intent)
	}

	return c.dashboard(sc, ledger, notice), nil
}

func (c *Controller) authenticate(ctx context.Context, cmd Command) (*State, error) {
	var (
		account *models.Account
		err     error
	)
	switch cmd.Intent {
	case IntentSignUp:
		account, err = c.accounts.Register(ctx, cmd.Email, cmd.Password, cmd.DisplayName)
	case IntentSignIn:
		account, err = c.accounts.Authenticate(ctx, cmd.Email, cmd.Password)
	case IntentProviderSignUp:
		account, err = c.accounts.ProviderSignUp(ctx, cmd.Email)
	case IntentProviderSignIn:
		account, err = c.accounts.ProviderSignIn(ctx, cmd.Email)
	}
	if err != nil {
		return c.unauthenticated(ctx), err
	}

	if err := c.sessions.Login(ctx, account.ID); err != nil {
		return c.unauthenticated(ctx), err
	}
	if cmd.Remember {
		if err := c.accounts.Remember(ctx, account.Email); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to remember login")
		}
	}

	sc := &models.SessionContext{Account: account}
	ledger, err := c.ledgers.Load(ctx, account)
	if err != nil {
		return nil, err
	}
	return c.dashboard(sc, ledger, "Welcome, "+ledger.Profile.DisplayName), nil
}

func (c *Controller) unauthenticated(ctx context.Context) *State {
	state := &State{Screen: ScreenUnauthenticated}
	remembered, err := c.accounts.RememberedLogins(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to load remembered logins")
	}
	state.Remembered = remembered
	return state
}

func (c *Controller) dashboard(sc *models.SessionContext, ledger *models.Ledger, notice string) *State {
	return &State{
		Screen:  ScreenDashboard,
		Session: sc,
		Ledger:  ledger,
		Summary: c.ledgers.ComputeSummary(ledger),
		Income:  c.ledgers.ComputeCategoryBreakdown(ledger, models.KindIncome),
		Expense: c.ledgers.ComputeCategoryBreakdown(ledger, models.KindExpense),
		Recent:  c.ledgers.Transactions(ledger, models.TransactionFilter{Limit: RecentLimit}),
		Notice:  notice,
	}
}
