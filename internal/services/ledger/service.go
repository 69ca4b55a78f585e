// Package ledger owns per-account ledgers: loading, mutation and aggregates.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/bobmcallan/fintrack/internal/common"
	"github.com/bobmcallan/fintrack/internal/interfaces"
	"github.com/bobmcallan/fintrack/internal/models"
	"github.com/bobmcallan/fintrack/internal/storage"
)

// Compile-time interface check
var _ interfaces.LedgerService = (*Service)(nil)

// Service implements LedgerService on a KVStore
type Service struct {
	kv              interfaces.KVStore
	logger          *common.Logger
	defaultCurrency string
	now             func() time.Time

	// serialises the revision check and write in Save
	mu sync.Mutex
}

// NewService creates a new ledger service
func NewService(kv interfaces.KVStore, logger *common.Logger, config *common.Config) *Service {
	currency := config.Ledger.DefaultCurrency
	if currency == "" {
		currency = "$"
	}
	return &Service{
		kv:              kv,
		logger:          logger,
		defaultCurrency: currency,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) newLedger(account *models.Account) *models.Ledger {
	return &models.Ledger{
		AccountID: account.ID,
		Profile: models.Profile{
			DisplayName:    account.DisplayName,
			CurrencySymbol: s.defaultCurrency,
			JoinedAt:       s.now(),
		},
		Transactions: []models.Transaction{},
		NextID:       1,
	}
}

// Load returns the persisted ledger for the account, creating and persisting
// an empty one on first use.
func (s *Service) Load(ctx context.Context, account *models.Account) (*models.Ledger, error) {
	if account == nil || account.ID == "" {
		return nil, models.ErrAccountNotFound
	}

	var ledger models.Ledger
	found, err := storage.GetJSON(ctx, s.kv, storage.LedgerKey(account.ID), &ledger)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	if found {
		normalize(&ledger)
		return &ledger, nil
	}

	fresh := s.newLedger(account)
	if err := s.Save(ctx, fresh); err != nil {
		return nil, err
	}
	s.logger.Info().Str("account", account.ID).Msg("Ledger created")
	return fresh, nil
}

// normalize repairs documents written by older versions.
func normalize(l *models.Ledger) {
	if l.Transactions == nil {
		l.Transactions = []models.Transaction{}
	}
	var maxID int64
	for _, tx := range l.Transactions {
		if tx.ID > maxID {
			maxID = tx.ID
		}
	}
	if l.NextID <= maxID {
		l.NextID = maxID + 1
	}
}

// Save replaces the persisted ledger. It fails with ErrLedgerConflict when the
// stored revision no longer matches the one the caller loaded; on success the
// ledger's revision is advanced in place.
func (s *Service) Save(ctx context.Context, ledger *models.Ledger) error {
	if ledger == nil || ledger.AccountID == "" {
		return fmt.Errorf("failed to save ledger: no owning account")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := storage.LedgerKey(ledger.AccountID)
	var stored models.Ledger
	found, err := storage.GetJSON(ctx, s.kv, key, &stored)
	if err != nil {
		return fmt.Errorf("failed to read ledger revision: %w", err)
	}
	if found && stored.Revision != ledger.Revision {
		return fmt.Errorf("%w: stored revision %d, loaded %d", models.ErrLedgerConflict, stored.Revision, ledger.Revision)
	}

	next := ledger.Clone()
	next.Revision = ledger.Revision + 1
	next.UpdatedAt = s.now()
	if err := storage.PutJSON(ctx, s.kv, key, next); err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}

	*ledger = *next
	return nil
}

func validateTransaction(tx models.Transaction) error {
	if !models.ValidKind(tx.Kind) {
		return fmt.Errorf("%w: kind must be income or expense", models.ErrInvalidTransaction)
	}
	if strings.TrimSpace(tx.Description) == "" {
		return fmt.Errorf("%w: description is required", models.ErrInvalidTransaction)
	}
	if !tx.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be a positive number", models.ErrInvalidTransaction)
	}
	if tx.Date.IsZero() {
		return fmt.Errorf("%w: date is required", models.ErrInvalidTransaction)
	}
	return nil
}

// AddTransaction validates tx, assigns the next id, inserts it at the head and
// persists. The ledger passed in is never modified.
func (s *Service) AddTransaction(ctx context.Context, ledger *models.Ledger, tx models.Transaction) (*models.Ledger, error) {
	if err := validateTransaction(tx); err != nil {
		return nil, err
	}

	next := ledger.Clone()
	tx.ID = next.NextID
	tx.Description = strings.TrimSpace(tx.Description)
	tx.Category = strings.TrimSpace(tx.Category)
	if tx.Category == "" {
		tx.Category = models.DefaultCategory
	}
	tx.CreatedAt = s.now()

	next.NextID++
	next.Transactions = append([]models.Transaction{tx}, next.Transactions...)

	if err := s.Save(ctx, next); err != nil {
		return nil, err
	}

	s.logger.Info().Str("account", next.AccountID).Int64("id", tx.ID).
		Str("kind", string(tx.Kind)).Str("amount", tx.Amount.String()).
		Str("category", tx.Category).Msg("Transaction added")
	return next, nil
}

// DeleteTransaction removes the transaction with the given id. An unknown id
// is not an error and nothing is written.
func (s *Service) DeleteTransaction(ctx context.Context, ledger *models.Ledger, id int64) (*models.Ledger, error) {
	idx := ledger.Find(id)
	if idx < 0 {
		s.logger.Debug().Str("account", ledger.AccountID).Int64("id", id).Msg("Delete of unknown transaction ignored")
		return ledger, nil
	}

	next := ledger.Clone()
	next.Transactions = append(next.Transactions[:idx], next.Transactions[idx+1:]...)

	if err := s.Save(ctx, next); err != nil {
		return nil, err
	}

	s.logger.Info().Str("account", next.AccountID).Int64("id", id).Msg("Transaction deleted")
	return next, nil
}

// ResolveCurrency turns an ISO 4217 code into its symbol. Anything else is
// taken as a literal symbol.
func ResolveCurrency(s string) string {
	s = strings.TrimSpace(s)
	if len(s) == 3 {
		if c := money.GetCurrency(strings.ToUpper(s)); c != nil {
			return c.Grapheme
		}
	}
	return s
}

// UpdateProfile changes the ledger's display name and currency symbol. Empty
// values keep the current setting. The account's own display name is left alone.
func (s *Service) UpdateProfile(ctx context.Context, ledger *models.Ledger, displayName, currency string) (*models.Ledger, error) {
	next := ledger.Clone()
	if name := strings.TrimSpace(displayName); name != "" {
		next.Profile.DisplayName = name
	}
	if symbol := ResolveCurrency(currency); symbol != "" {
		next.Profile.CurrencySymbol = symbol
	}

	if err := s.Save(ctx, next); err != nil {
		return nil, err
	}

	s.logger.Info().Str("account", next.AccountID).
		Str("name", next.Profile.DisplayName).
		Str("currency", next.Profile.CurrencySymbol).Msg("Profile updated")
	return next, nil
}

// ResetAllData replaces the account's ledger with a fresh empty one. The
// revision keeps counting, so ledgers loaded before the reset can no longer
// be saved over it.
func (s *Service) ResetAllData(ctx context.Context, account *models.Account) (*models.Ledger, error) {
	if account == nil || account.ID == "" {
		return nil, models.ErrAccountNotFound
	}

	var stored models.Ledger
	found, err := storage.GetJSON(ctx, s.kv, storage.LedgerKey(account.ID), &stored)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	fresh := s.newLedger(account)
	if found {
		fresh.Revision = stored.Revision
	}
	if err := s.Save(ctx, fresh); err != nil {
		return nil, err
	}

	s.logger.Warn().Str("account", account.ID).Int("revision", fresh.Revision).Msg("Ledger reset")
	return fresh, nil
}

// ComputeSummary totals income and expense. Balance is always income minus expense.
func (s *Service) ComputeSummary(ledger *models.Ledger) models.Summary {
	return Summarize(ledger.Transactions)
}

// Summarize is the pure aggregate behind ComputeSummary.
func Summarize(txs []models.Transaction) models.Summary {
	income := decimal.Zero
	expense := decimal.Zero
	for _, tx := range txs {
		switch tx.Kind {
		case models.KindIncome:
			income = income.Add(tx.Amount)
		case models.KindExpense:
			expense = expense.Add(tx.Amount)
		}
	}
	return models.Summary{
		TotalIncome:  income,
		TotalExpense: expense,
		Balance:      income.Sub(expense),
	}
}

// ComputeCategoryBreakdown sums amounts per category for one kind, in the
// order categories are first seen walking the ledger head-first.
func (s *Service) ComputeCategoryBreakdown(ledger *models.Ledger, kind models.TransactionKind) []models.CategoryTotal {
	return Breakdown(ledger.Transactions, kind)
}

// Breakdown is the pure aggregate behind ComputeCategoryBreakdown.
func Breakdown(txs []models.Transaction, kind models.TransactionKind) []models.CategoryTotal {
	var out []models.CategoryTotal
	index := make(map[string]int)
	for _, tx := range txs {
		if tx.Kind != kind {
			continue
		}
		i, ok := index[tx.Category]
		if !ok {
			i = len(out)
			index[tx.Category] = i
			out = append(out, models.CategoryTotal{Category: tx.Category, Amount: decimal.Zero})
		}
		out[i].Amount = out[i].Amount.Add(tx.Amount)
		out[i].Count++
	}
	return out
}

// Transactions lists the ledger head-first, narrowed by filter.
func (s *Service) Transactions(ledger *models.Ledger, filter models.TransactionFilter) []models.Transaction {
	out := make([]models.Transaction, 0, len(ledger.Transactions))
	for _, tx := range ledger.Transactions {
		if filter.Kind != "" && tx.Kind != filter.Kind {
			continue
		}
		out = append(out, tx)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out
}

// Categories returns the suggested categories for kind.
func (s *Service) Categories(kind models.TransactionKind) []string {
	return models.Categories(kind)
}
