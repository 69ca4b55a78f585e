package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"

	"github.com/bobmcallan/fintrack/internal/models"
	"github.com/bobmcallan/fintrack/internal/view"
)

// printMarkdown renders md for the terminal, or prints it raw when stdout
// is not a terminal.
func printMarkdown(md string) {
	if f, ok := stdout.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		fmt.Fprint(stdout, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}

func renderDashboard(s *view.State) string {
	var sb strings.Builder
	p := s.Ledger.Profile

	if s.Notice != "" {
		sb.WriteString("> " + s.Notice + "\n\n")
	}
	sb.WriteString(fmt.Sprintf("# %s\n\n", p.DisplayName))
	sb.WriteString("| Balance | Income | Expenses |\n")
	sb.WriteString("|---:|---:|---:|\n")
	sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n\n",
		p.FormatAmount(s.Summary.Balance),
		p.FormatAmount(s.Summary.TotalIncome),
		p.FormatAmount(s.Summary.TotalExpense)))

	sb.WriteString("## Recent transactions\n\n")
	writeTransactionTable(&sb, p, s.Recent)
	return sb.String()
}

func renderTransactions(s *view.State, filter models.TransactionFilter) string {
	var sb strings.Builder
	title := "Transactions"
	if filter.Kind != "" {
		title = strings.ToUpper(string(filter.Kind[:1])) + string(filter.Kind[1:]) + " transactions"
	}
	sb.WriteString("# " + title + "\n\n")

	var txs []models.Transaction
	for _, tx := range s.Ledger.Transactions {
		if filter.Kind != "" && tx.Kind != filter.Kind {
			continue
		}
		txs = append(txs, tx)
		if filter.Limit > 0 && len(txs) == filter.Limit {
			break
		}
	}
	writeTransactionTable(&sb, s.Ledger.Profile, txs)
	return sb.String()
}

func writeTransactionTable(sb *strings.Builder, p models.Profile, txs []models.Transaction) {
	if len(txs) == 0 {
		sb.WriteString("No transactions yet.\n")
		return
	}
	sb.WriteString("| ID | Date | Category | Description | Amount |\n")
	sb.WriteString("|---:|---|---|---|---:|\n")
	for _, tx := range txs {
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n",
			tx.ID, tx.Date, cell(tx.Category), cell(tx.Description), p.FormatSigned(tx)))
	}
}

func renderBreakdown(s *view.State, kind models.TransactionKind) string {
	totals := s.Expense
	title := "Expenses by category"
	if kind == models.KindIncome {
		totals = s.Income
		title = "Income by category"
	}

	var sb strings.Builder
	sb.WriteString("# " + title + "\n\n")
	if len(totals) == 0 {
		sb.WriteString("Nothing recorded yet.\n")
		return sb.String()
	}
	sb.WriteString("| Category | Transactions | Amount |\n")
	sb.WriteString("|---|---:|---:|\n")
	for _, ct := range totals {
		sb.WriteString(fmt.Sprintf("| %s | %d | %s |\n", cell(ct.Category), ct.Count, s.Ledger.Profile.FormatAmount(ct.Amount)))
	}
	return sb.String()
}

func renderAccount(s *view.State) string {
	var sb strings.Builder
	if s.Notice != "" {
		sb.WriteString("> " + s.Notice + "\n\n")
	}
	acct := s.Session.Account
	p := s.Ledger.Profile
	sb.WriteString("# Account\n\n")
	sb.WriteString(fmt.Sprintf("- **Email:** %s\n", acct.Email))
	sb.WriteString(fmt.Sprintf("- **Name:** %s\n", p.DisplayName))
	sb.WriteString(fmt.Sprintf("- **Currency:** %s\n", p.CurrencySymbol))
	sb.WriteString(fmt.Sprintf("- **Sign-in:** %s\n", acct.AuthProvider))
	sb.WriteString(fmt.Sprintf("- **Member since:** %s\n", acct.CreatedAt.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("- **Transactions:** %d\n", len(s.Ledger.Transactions)))
	return sb.String()
}

func cell(v string) string {
	v = strings.ReplaceAll(v, "|", `\|`)
	return strings.ReplaceAll(v, "\n", " ")
}
