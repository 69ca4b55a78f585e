package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind is the direction of a transaction.
type TransactionKind string

const (
	KindIncome  TransactionKind = "income"
	KindExpense TransactionKind = "expense"
)

// ValidKind returns true if k is income or expense.
func ValidKind(k TransactionKind) bool {
	return k == KindIncome || k == KindExpense
}

// ParseKind accepts "income"/"expense" and their short forms.
func ParseKind(s string) (TransactionKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "in":
		return KindIncome, true
	case "expense", "out":
		return KindExpense, true
	}
	return "", false
}

// DefaultCategory is used when a transaction is recorded without a category.
const DefaultCategory = "Other"

var categoriesByKind = map[TransactionKind][]string{
	KindExpense: {"Food", "Rent", "Transport", "Utilities", "Entertainment", "Health", "Shopping", "Other"},
	KindIncome:  {"Salary", "Freelance", "Investment", "Gift", "Other"},
}

// Categories returns the suggested categories for a kind.
func Categories(kind TransactionKind) []string {
	src := categoriesByKind[kind]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Transaction is a single income or expense record. Amount is always
// positive; the sign comes from Kind.
type Transaction struct {
	ID          int64           `json:"id"`
	Kind        TransactionKind `json:"kind"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Date        Date            `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
}

// SignedAmount returns the amount negated for expenses.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Kind == KindExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Profile holds per-ledger display settings.
type Profile struct {
	DisplayName    string    `json:"display_name"`
	CurrencySymbol string    `json:"currency_symbol"`
	JoinedAt       time.Time `json:"joined_at"`
}

// Ledger is one account's transactions plus profile. Transactions are kept
// most-recent-first.
type Ledger struct {
	AccountID    string        `json:"account_id"`
	Profile      Profile       `json:"profile"`
	Transactions []Transaction `json:"transactions"`
	NextID       int64         `json:"next_id"`
	Revision     int           `json:"revision"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Clone returns a deep copy that shares no slices with l.
func (l *Ledger) Clone() *Ledger {
	c := *l
	c.Transactions = make([]Transaction, len(l.Transactions))
	copy(c.Transactions, l.Transactions)
	return &c
}

// Find returns the index of the transaction with the given id, or -1.
func (l *Ledger) Find(id int64) int {
	for i := range l.Transactions {
		if l.Transactions[i].ID == id {
			return i
		}
	}
	return -1
}

// Summary holds aggregate totals derived from a ledger.
type Summary struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
}

// CategoryTotal is the summed amount for one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Count    int             `json:"count"`
}

// TransactionFilter narrows a transaction listing. Zero values match everything.
type TransactionFilter struct {
	Kind  TransactionKind
	Limit int
}

// FormatAmount renders an amount with the currency symbol and two decimals.
func (p Profile) FormatAmount(d decimal.Decimal) string {
	return p.CurrencySymbol + d.StringFixed(2)
}

// FormatSigned renders a transaction amount with an explicit sign, e.g. -$3.50.
func (p Profile) FormatSigned(tx Transaction) string {
	a := tx.SignedAmount()
	if a.IsNegative() {
		return "-" + p.FormatAmount(a.Neg())
	}
	return "+" + p.FormatAmount(a)
}
