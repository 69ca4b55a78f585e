package report

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/fintrack/internal/models"
)

var (
	incomeColor  = drawing.ColorFromHex("00b894")
	expenseColor = drawing.ColorFromHex("d63031")
)

// WriteCategoryChart renders a PNG pie chart of the category breakdown for kind.
func WriteCategoryChart(s *Snapshot, kind models.TransactionKind, w io.Writer) error {
	totals := s.Expense
	title := "Expenses by Category"
	if kind == models.KindIncome {
		totals = s.Income
		title = "Income by Category"
	}
	if len(totals) == 0 {
		return fmt.Errorf("no %s transactions to chart", kind)
	}

	values := make([]chart.Value, 0, len(totals))
	for _, ct := range totals {
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %s", ct.Category, s.amount(ct.Amount)),
			Value: ct.Amount.InexactFloat64(),
		})
	}

	pie := chart.PieChart{
		Title:  title,
		Width:  600,
		Height: 600,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		Values: values,
	}

	if err := pie.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("chart render failed: %w", err)
	}
	return nil
}

// WriteOverviewChart renders a PNG bar chart comparing income, expenses and balance.
func WriteOverviewChart(s *Snapshot, w io.Writer) error {
	if len(s.Transactions) == 0 {
		return fmt.Errorf("no transactions to chart")
	}

	balanceColor := incomeColor
	if s.Summary.Balance.IsNegative() {
		balanceColor = expenseColor
	}

	bars := chart.BarChart{
		Title:  "Income vs Expenses",
		Width:  600,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		BarWidth: 80,
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%s%.0f", s.Profile.CurrencySymbol, f)
				}
				return ""
			},
		},
		Bars: []chart.Value{
			{Label: "Income", Value: s.Summary.TotalIncome.InexactFloat64(), Style: chart.Style{FillColor: incomeColor, StrokeColor: incomeColor}},
			{Label: "Expenses", Value: s.Summary.TotalExpense.InexactFloat64(), Style: chart.Style{FillColor: expenseColor, StrokeColor: expenseColor}},
			{Label: "Balance", Value: s.Summary.Balance.Abs().InexactFloat64(), Style: chart.Style{FillColor: balanceColor, StrokeColor: balanceColor}},
		},
	}

	if err := bars.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("chart render failed: %w", err)
	}
	return nil
}
