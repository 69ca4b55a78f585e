// Package report renders ledger snapshots into export files
package report

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/fintrack/internal/common"
	"github.com/bobmcallan/fintrack/internal/interfaces"
	"github.com/bobmcallan/fintrack/internal/models"
	"github.com/bobmcallan/fintrack/internal/services/ledger"
)

// Export formats.
const (
	FormatCSV           = "csv"
	FormatMarkdown      = "md"
	FormatHTML          = "html"
	FormatPDF           = "pdf"
	FormatXLSX          = "xlsx"
	FormatExpenseChart  = "expense-chart"
	FormatIncomeChart   = "income-chart"
	FormatOverviewChart = "overview-chart"
)

var formats = []string{
	FormatCSV, FormatMarkdown, FormatHTML, FormatPDF, FormatXLSX,
	FormatExpenseChart, FormatIncomeChart, FormatOverviewChart,
}

// Compile-time interface check
var _ interfaces.ReportService = (*Service)(nil)

// Service implements ReportService
type Service struct {
	logger *common.Logger
	now    func() time.Time
}

// NewService creates a new report service
func NewService(logger *common.Logger) *Service {
	return &Service{logger: logger, now: time.Now}
}

// Snapshot is a read-only copy of a ledger plus its derived aggregates, taken
// at the moment of export.
type Snapshot struct {
	Profile      models.Profile
	Transactions []models.Transaction
	Summary      models.Summary
	Income       []models.CategoryTotal
	Expense      []models.CategoryTotal
	GeneratedAt  time.Time
}

// NewSnapshot copies l so later mutations cannot leak into a report.
func NewSnapshot(l *models.Ledger, at time.Time) *Snapshot {
	c := l.Clone()
	return &Snapshot{
		Profile:      c.Profile,
		Transactions: c.Transactions,
		Summary:      ledger.Summarize(c.Transactions),
		Income:       ledger.Breakdown(c.Transactions, models.KindIncome),
		Expense:      ledger.Breakdown(c.Transactions, models.KindExpense),
		GeneratedAt:  at,
	}
}

// amount formats d with the ledger's currency symbol.
func (s *Snapshot) amount(d decimal.Decimal) string {
	return s.Profile.FormatAmount(d)
}

// Formats lists the supported export formats.
func (s *Service) Formats() []string {
	out := make([]string, len(formats))
	copy(out, formats)
	return out
}

// Export renders the ledger in the given format to w.
func (s *Service) Export(ctx context.Context, l *models.Ledger, format string, w io.Writer) error {
	if l == nil {
		return fmt.Errorf("export: no ledger")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	snap := NewSnapshot(l, s.now())
	format = strings.ToLower(strings.TrimSpace(format))

	var err error
	switch format {
	case FormatCSV:
		err = WriteCSV(snap, w)
	case FormatMarkdown:
		_, err = io.WriteString(w, Markdown(snap))
	case FormatHTML:
		err = WriteHTML(snap, w)
	case FormatPDF:
		err = WritePDF(snap, w)
	case FormatXLSX:
		err = WriteXLSX(snap, w)
	case FormatExpenseChart:
		err = WriteCategoryChart(snap, models.KindExpense, w)
	case FormatIncomeChart:
		err = WriteCategoryChart(snap, models.KindIncome, w)
	case FormatOverviewChart:
		err = WriteOverviewChart(snap, w)
	default:
		return fmt.Errorf("unsupported export format %q (supported: %s)", format, strings.Join(formats, ", "))
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}

	s.logger.Info().Str("account", l.AccountID).Str("format", format).
		Int("transactions", len(snap.Transactions)).Msg("Report exported")
	return nil
}

// Extension returns the file extension for a format.
func Extension(format string) string {
	switch format {
	case FormatExpenseChart, FormatIncomeChart, FormatOverviewChart:
		return "png"
	default:
		return format
	}
}

// FileName returns the download name for an export made on the given day,
// e.g. FinancialReport_2024-01-31.csv.
func FileName(format string, day time.Time) string {
	base := "FinancialReport_" + day.Format(models.DateFormat)
	switch format {
	case FormatExpenseChart, FormatIncomeChart, FormatOverviewChart:
		base += "_" + format
	}
	return base + "." + Extension(format)
}
