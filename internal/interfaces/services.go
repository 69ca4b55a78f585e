package interfaces

import (
	"context"
	"io"

	"github.com/bobmcallan/fintrack/internal/models"
)

// AccountService manages registered accounts and credentials
type AccountService interface {
	Register(ctx context.Context, email, password, displayName string) (*models.Account, error)
	Authenticate(ctx context.Context, email, password string) (*models.Account, error)
	FindByID(ctx context.Context, id string) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)

	// Simulated OAuth provider
	ProviderSignUp(ctx context.Context, email string) (*models.Account, error)
	ProviderSignIn(ctx context.Context, email string) (*models.Account, error)

	// Autofill list
	Remember(ctx context.Context, email string) error
	Forget(ctx context.Context, email string) error
	RememberedLogins(ctx context.Context) ([]models.RememberedLogin, error)
}

// SessionService tracks the currently authenticated account
type SessionService interface {
	Login(ctx context.Context, accountID string) error
	Logout(ctx context.Context) error
	Current(ctx context.Context) (*models.SessionContext, error)
}

// LedgerService owns per-account ledgers and their aggregates
type LedgerService interface {
	Load(ctx context.Context, account *models.Account) (*models.Ledger, error)
	Save(ctx context.Context, ledger *models.Ledger) error
	AddTransaction(ctx context.Context, ledger *models.Ledger, tx models.Transaction) (*models.Ledger, error)
	DeleteTransaction(ctx context.Context, ledger *models.Ledger, id int64) (*models.Ledger, error)
	UpdateProfile(ctx context.Context, ledger *models.Ledger, displayName, currency string) (*models.Ledger, error)
	ResetAllData(ctx context.Context, account *models.Account) (*models.Ledger, error)
	ComputeSummary(ledger *models.Ledger) models.Summary
	ComputeCategoryBreakdown(ledger *models.Ledger, kind models.TransactionKind) []models.CategoryTotal
	Transactions(ledger *models.Ledger, filter models.TransactionFilter) []models.Transaction
	Categories(kind models.TransactionKind) []string
}

// ReportService renders ledger snapshots into export artifacts
type ReportService interface {
	Export(ctx context.Context, ledger *models.Ledger, format string, w io.Writer) error
	Formats() []string
}
