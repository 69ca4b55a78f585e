package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/bobmcallan/fintrack/internal/models"
)

// Workbook sheet names.
const (
	SheetSummary      = "Summary"
	SheetTransactions = "Transactions"
	SheetIncome       = "Income"
	SheetExpenses     = "Expenses"
)

// WriteXLSX writes a workbook with Summary, Transactions, Income and Expenses
// sheets. Amount columns hold numbers so they can be summed in a spreadsheet.
func WriteXLSX(s *Snapshot, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	// NewFile starts with "Sheet1".
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return err
	}

	summary := [][]interface{}{
		{"Financial Summary"},
		{},
		{"Total Income", s.amount(s.Summary.TotalIncome)},
		{"Total Expenses", s.amount(s.Summary.TotalExpense)},
		{"Current Balance", s.amount(s.Summary.Balance)},
		{},
		{"Generated On", s.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"User", s.Profile.DisplayName},
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return err
	}

	all := [][]interface{}{{"Date", "Type", "Category", "Description", "Amount"}}
	income := [][]interface{}{{"Date", "Source", "Amount"}}
	expenses := [][]interface{}{{"Date", "Category", "Amount"}}
	for _, tx := range s.Transactions {
		amount := tx.Amount.InexactFloat64()
		all = append(all, []interface{}{tx.Date.String(), strings.ToUpper(string(tx.Kind)), tx.Category, tx.Description, amount})
		switch tx.Kind {
		case models.KindIncome:
			income = append(income, []interface{}{tx.Date.String(), tx.Category, amount})
		case models.KindExpense:
			expenses = append(expenses, []interface{}{tx.Date.String(), tx.Category, amount})
		}
	}

	for _, sheet := range []struct {
		name string
		rows [][]interface{}
	}{
		{SheetTransactions, all},
		{SheetIncome, income},
		{SheetExpenses, expenses},
	} {
		if _, err := f.NewSheet(sheet.name); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet.name, err)
		}
		if err := writeRows(f, sheet.name, sheet.rows); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
