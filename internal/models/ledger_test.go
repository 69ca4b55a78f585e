package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want TransactionKind
		ok   bool
	}{
		{"income", KindIncome, true},
		{"INCOME", KindIncome, true},
		{"in", KindIncome, true},
		{"expense", KindExpense, true},
		{" Expense ", KindExpense, true},
		{"out", KindExpense, true},
		{"transfer", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseKind(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestCategories_ReturnsCopy(t *testing.T) {
	cats := Categories(KindExpense)
	assert.Equal(t, "Food", cats[0])
	assert.Contains(t, cats, "Other")

	cats[0] = "Mutated"
	assert.Equal(t, "Food", Categories(KindExpense)[0])

	assert.Equal(t, []string{"Salary", "Freelance", "Investment", "Gift", "Other"}, Categories(KindIncome))
	assert.Empty(t, Categories("transfer"))
}

func TestTransaction_SignedAmount(t *testing.T) {
	in := Transaction{Kind: KindIncome, Amount: decimal.NewFromInt(10)}
	out := Transaction{Kind: KindExpense, Amount: decimal.NewFromInt(10)}
	assert.True(t, in.SignedAmount().Equal(decimal.NewFromInt(10)))
	assert.True(t, out.SignedAmount().Equal(decimal.NewFromInt(-10)))

	p := Profile{CurrencySymbol: "€"}
	assert.Equal(t, "+€10.00", p.FormatSigned(in))
	assert.Equal(t, "-€10.00", p.FormatSigned(out))
}

func TestLedger_CloneIsIndependent(t *testing.T) {
	l := &Ledger{AccountID: "a", Transactions: []Transaction{{ID: 1}, {ID: 2}}}
	c := l.Clone()
	c.Transactions[0].ID = 99
	c.Transactions = append(c.Transactions, Transaction{ID: 3})

	assert.Equal(t, int64(1), l.Transactions[0].ID)
	assert.Len(t, l.Transactions, 2)
	assert.Equal(t, 1, l.Find(2))
	assert.Equal(t, -1, l.Find(3))
}

func TestAccountCollection_FindByEmailIgnoresCase(t *testing.T) {
	c := &AccountCollection{Accounts: []Account{
		{ID: "a", Email: "first@gmail.com"},
		{ID: "b", Email: "Second@Gmail.com"},
	}}
	assert.Equal(t, 1, c.FindByEmail("second@gmail.com"))
	assert.Equal(t, 0, c.FindByEmail("FIRST@GMAIL.COM"))
	assert.Equal(t, -1, c.FindByEmail("third@gmail.com"))
	assert.Equal(t, 1, c.FindByID("b"))
	assert.Equal(t, -1, c.FindByID("z"))
}

func TestSessionContext_AccountID(t *testing.T) {
	var s *SessionContext
	assert.Equal(t, "", s.AccountID())
	s = &SessionContext{Account: &Account{ID: "acc-1"}}
	assert.Equal(t, "acc-1", s.AccountID())
}
