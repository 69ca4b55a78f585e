package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/bobmcallan/fintrack/internal/models"
	"github.com/bobmcallan/fintrack/internal/view"
)

// --- add ---

type addCmd struct {
	date     string
	category string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record an income or expense" }
func (*addCmd) Usage() string {
	return `fintrack add [-d <date>] [-c <category>] <income|expense> <amount> <description...>

  Records a transaction. The amount must be positive; the kind decides its sign.
  Suggested categories:
    income:  ` + strings.Join(models.Categories(models.KindIncome), ", ") + `
    expense: ` + strings.Join(models.Categories(models.KindExpense), ", ") + `
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", models.Today().String(), "Date of the transaction (YYYY-MM-DD)")
	f.StringVar(&c.category, "c", models.DefaultCategory, "Category")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 3 {
		fmt.Fprintln(stderr, "Error: kind, amount and description are required")
		return subcommands.ExitUsageError
	}
	tx, err := parseTransaction(f.Arg(0), f.Arg(1), strings.Join(f.Args()[2:], " "), c.category, c.date)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return dispatch(ctx, view.Command{Intent: view.IntentAddTransaction, Transaction: tx}, renderDashboard)
}

// parseTransaction builds a transaction from command-line text. Range checks
// are left to the ledger.
func parseTransaction(kind, amount, description, category, date string) (models.Transaction, error) {
	k, ok := models.ParseKind(kind)
	if !ok {
		return models.Transaction{}, fmt.Errorf("unknown kind %q (want income or expense)", kind)
	}
	a, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid amount %q", amount)
	}
	d, err := models.ParseDate(date)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return models.Transaction{
		Kind:        k,
		Amount:      a,
		Description: description,
		Category:    category,
		Date:        d,
	}, nil
}

// --- delete ---

type deleteCmd struct{}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete a transaction by id" }
func (*deleteCmd) Usage() string {
	return `fintrack delete <id>

  Deletes the transaction. Deleting an unknown id does nothing.
`
}
func (*deleteCmd) SetFlags(*flag.FlagSet) {}

func (*deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(stderr, "Error: a transaction id is required")
		return subcommands.ExitUsageError
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(f.Arg(0), "#"), 10, 64)
	if err != nil {
		fmt.Fprintf(stderr, "Error: invalid id %q\n", f.Arg(0))
		return subcommands.ExitUsageError
	}
	return dispatch(ctx, view.Command{Intent: view.IntentDeleteTransaction, TransactionID: id}, nil)
}

// --- list ---

type listCmd struct {
	kind  string
	limit int
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list transactions, most recent first" }
func (*listCmd) Usage() string {
	return `fintrack list [-k <income|expense>] [-n <count>]
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "k", "", "Only show income or expense")
	f.IntVar(&c.limit, "n", 0, "Show at most n transactions (0 for all)")
}

func (c *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	filter := models.TransactionFilter{Limit: c.limit}
	if c.kind != "" {
		k, ok := models.ParseKind(c.kind)
		if !ok {
			fmt.Fprintf(stderr, "Error: unknown kind %q\n", c.kind)
			return subcommands.ExitUsageError
		}
		filter.Kind = k
	}
	return dispatch(ctx, view.Command{Intent: view.IntentRefresh}, func(s *view.State) string {
		return renderTransactions(s, filter)
	})
}

// --- summary ---

type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "show the dashboard: totals and recent transactions" }
func (*summaryCmd) Usage() string {
	return `fintrack summary
`
}
func (*summaryCmd) SetFlags(*flag.FlagSet) {}

func (*summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return dispatch(ctx, view.Command{Intent: view.IntentRefresh}, renderDashboard)
}

// --- breakdown ---

type breakdownCmd struct {
	kind string
}

func (*breakdownCmd) Name() string     { return "breakdown" }
func (*breakdownCmd) Synopsis() string { return "show totals per category" }
func (*breakdownCmd) Usage() string {
	return `fintrack breakdown [-k <income|expense>]
`
}

func (c *breakdownCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "k", "expense", "Kind to break down")
}

func (c *breakdownCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	k, ok := models.ParseKind(c.kind)
	if !ok {
		fmt.Fprintf(stderr, "Error: unknown kind %q\n", c.kind)
		return subcommands.ExitUsageError
	}
	return dispatch(ctx, view.Command{Intent: view.IntentRefresh}, func(s *view.State) string {
		return renderBreakdown(s, k)
	})
}

// --- settings ---

type settingsCmd struct {
	name     string
	currency string
}

func (*settingsCmd) Name() string     { return "settings" }
func (*settingsCmd) Synopsis() string { return "change display name or currency" }
func (*settingsCmd) Usage() string {
	return `fintrack settings [-name <display name>] [-currency <symbol or ISO code>]

  Without flags, shows the current settings. The currency accepts a symbol
  such as € or an ISO 4217 code such as EUR.
`
}

func (c *settingsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Display name shown on reports")
	f.StringVar(&c.currency, "currency", "", "Currency symbol or ISO code")
}

func (c *settingsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" && c.currency == "" {
		return dispatch(ctx, view.Command{Intent: view.IntentRefresh}, renderAccount)
	}
	return dispatch(ctx, view.Command{
		Intent:      view.IntentSaveSettings,
		DisplayName: c.name,
		Currency:    c.currency,
	}, renderAccount)
}

// --- reset ---

type resetCmd struct {
	yes bool
}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "delete all transactions and settings" }
func (*resetCmd) Usage() string {
	return `fintrack reset -yes

  Deletes ALL data of the signed-in account. This cannot be undone.
`
}

func (c *resetCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "yes", false, "Confirm the reset")
}

func (c *resetCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return dispatch(ctx, view.Command{Intent: view.IntentResetData, Confirm: c.yes}, nil)
}
