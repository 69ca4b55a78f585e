package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
)

// accent is the report heading colour.
var accent = [3]int{108, 92, 231}

// WritePDF renders a one-section report: title, summary lines and a
// transaction table that flows onto further pages as needed.
func WritePDF(s *Snapshot, w io.Writer) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCompression(false)
	doc.SetTitle("Financial Report", true)
	doc.SetAuthor("fintrack", true)
	doc.SetMargins(14, 14, 14)
	doc.SetAutoPageBreak(true, 15)

	// Core fonts are cp1252; translate so symbols like € survive.
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.AddPage()

	doc.SetFont("Helvetica", "B", 20)
	doc.SetTextColor(accent[0], accent[1], accent[2])
	doc.CellFormat(0, 10, "Financial Report", "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(100, 100, 100)
	doc.CellFormat(0, 6, "Generated: "+s.GeneratedAt.Format("2006-01-02"), "", 1, "C", false, 0, "")
	doc.CellFormat(0, 6, tr("User: "+s.Profile.DisplayName), "", 1, "C", false, 0, "")
	doc.Ln(6)

	doc.SetFont("Helvetica", "B", 14)
	doc.SetTextColor(0, 0, 0)
	doc.CellFormat(0, 8, "Summary", "", 1, "L", false, 0, "")

	doc.SetFont("Helvetica", "", 11)
	for _, line := range []string{
		"Total Income: " + s.amount(s.Summary.TotalIncome),
		"Total Expenses: " + s.amount(s.Summary.TotalExpense),
		"Current Balance: " + s.amount(s.Summary.Balance),
	} {
		doc.CellFormat(0, 7, tr(line), "", 1, "L", false, 0, "")
	}
	doc.Ln(6)

	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 8, "Transaction History", "", 1, "L", false, 0, "")

	headers := []string{"Date", "Type", "Category", "Description", "Amount"}
	widths := []float64{25, 22, 35, 70, 30}

	drawHeader := func() {
		doc.SetFont("Helvetica", "B", 9)
		doc.SetFillColor(accent[0], accent[1], accent[2])
		doc.SetTextColor(255, 255, 255)
		for i, h := range headers {
			doc.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
		}
		doc.Ln(-1)
		doc.SetFont("Helvetica", "", 9)
		doc.SetTextColor(0, 0, 0)
	}
	drawHeader()

	_, pageHeight := doc.GetPageSize()
	_, _, _, bottom := doc.GetMargins()
	for _, tx := range s.Transactions {
		if doc.GetY()+6 > pageHeight-bottom {
			doc.AddPage()
			drawHeader()
		}
		row := []string{
			tx.Date.String(),
			strings.ToUpper(string(tx.Kind)),
			truncate(tx.Category, 20),
			truncate(tx.Description, 45),
			s.amount(tx.Amount),
		}
		for i, cell := range row {
			align := "L"
			if i == len(row)-1 {
				align = "R"
			}
			doc.CellFormat(widths[i], 6, tr(cell), "1", 0, align, false, 0, "")
		}
		doc.Ln(-1)
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
