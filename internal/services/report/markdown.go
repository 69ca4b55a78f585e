package report

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/bobmcallan/fintrack/internal/models"
)

// Markdown renders the summary, category breakdowns and transaction history.
func Markdown(s *Snapshot) string {
	var sb strings.Builder

	sb.WriteString("# Financial Report\n\n")
	sb.WriteString(fmt.Sprintf("**Generated:** %s  \n", s.GeneratedAt.Format("2006-01-02 15:04")))
	sb.WriteString(fmt.Sprintf("**User:** %s\n\n", escapeCell(s.Profile.DisplayName)))

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| | Amount |\n")
	sb.WriteString("|---|---:|\n")
	sb.WriteString(fmt.Sprintf("| Total Income | %s |\n", s.amount(s.Summary.TotalIncome)))
	sb.WriteString(fmt.Sprintf("| Total Expenses | %s |\n", s.amount(s.Summary.TotalExpense)))
	sb.WriteString(fmt.Sprintf("| Current Balance | %s |\n\n", s.amount(s.Summary.Balance)))

	writeBreakdown(&sb, s, "Income by Category", s.Income)
	writeBreakdown(&sb, s, "Expenses by Category", s.Expense)

	sb.WriteString("## Transaction History\n\n")
	if len(s.Transactions) == 0 {
		sb.WriteString("No transactions yet.\n")
		return sb.String()
	}
	sb.WriteString("| ID | Date | Type | Category | Description | Amount |\n")
	sb.WriteString("|---:|---|---|---|---|---:|\n")
	for _, tx := range s.Transactions {
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %s |\n",
			tx.ID, tx.Date, strings.ToUpper(string(tx.Kind)),
			escapeCell(tx.Category), escapeCell(tx.Description),
			s.Profile.FormatSigned(tx)))
	}
	return sb.String()
}

func writeBreakdown(sb *strings.Builder, s *Snapshot, title string, totals []models.CategoryTotal) {
	if len(totals) == 0 {
		return
	}
	sb.WriteString("## " + title + "\n\n")
	sb.WriteString("| Category | Transactions | Amount |\n")
	sb.WriteString("|---|---:|---:|\n")
	for _, ct := range totals {
		sb.WriteString(fmt.Sprintf("| %s | %d | %s |\n", escapeCell(ct.Category), ct.Count, s.amount(ct.Amount)))
	}
	sb.WriteString("\n")
}

// escapeCell keeps user text from breaking a table row.
func escapeCell(v string) string {
	v = strings.ReplaceAll(v, "|", `\|`)
	return strings.ReplaceAll(v, "\n", " ")
}

var markdownRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// WriteHTML converts the markdown report into a standalone HTML page.
func WriteHTML(s *Snapshot, w io.Writer) error {
	var body bytes.Buffer
	if err := markdownRenderer.Convert([]byte(Markdown(s)), &body); err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}

	title := html.EscapeString("Financial Report - " + s.Profile.DisplayName)
	_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; max-width: 960px; margin: 2em auto; }
h1 { color: #6c5ce7; }
table { border-collapse: collapse; margin-bottom: 1.5em; }
th, td { border: 1px solid #ccc; padding: 4px 10px; }
th { background: #6c5ce7; color: #fff; }
</style>
</head>
<body>
%s</body>
</html>
`, title, body.String())
	return err
}
