package report

import (
	"bufio"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// WriteCSV writes one row per transaction followed by a SUMMARY block.
// Amounts are plain numbers without currency symbol.
func WriteCSV(s *Snapshot, w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("Date,Type,Category,Description,Amount\n")

	for _, tx := range s.Transactions {
		fields := []string{
			tx.Date.String(),
			strings.ToUpper(string(tx.Kind)),
			csvField(tx.Category),
			quote(tx.Description),
			tx.Amount.String(),
		}
		bw.WriteString(strings.Join(fields, ","))
		bw.WriteByte('\n')
	}

	bw.WriteString("\n\nSUMMARY\n")
	writeSummaryRow(bw, "Total Income", s.Summary.TotalIncome)
	writeSummaryRow(bw, "Total Expenses", s.Summary.TotalExpense)
	writeSummaryRow(bw, "Balance", s.Summary.Balance)

	return bw.Flush()
}

func writeSummaryRow(w *bufio.Writer, label string, d decimal.Decimal) {
	w.WriteString(label)
	w.WriteByte(',')
	w.WriteString(d.String())
	w.WriteByte('\n')
}

// quote always wraps s in double quotes, doubling embedded quotes.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// csvField quotes s only when it would otherwise break the row.
func csvField(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quote(s)
	}
	return s
}
