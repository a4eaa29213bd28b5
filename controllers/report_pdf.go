package controllers

import (
	"bytes"
	"fmt"
	"time"

	"depotrack/db"
	"depotrack/models"

	"github.com/jung-kurt/gofpdf"
)

// summaryPDF renders the printable inventory report: the dashboard
// numbers followed by the overdue table.
func summaryPDF(now time.Time, stats *db.DashboardStats, overdue []db.TransactionRow) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Inventory Report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, "Generated "+now.Format("2006-01-02 15:04 MST"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	lines := []struct {
		label string
		value int64
	}{
		{"Total items", stats.TotalItems},
		{"In stock", stats.ItemsInStock},
		{"In use", stats.ItemsInUse},
		{"In maintenance", stats.ItemsInMaintenance},
		{"Warehouses", stats.TotalWarehouses},
		{"Active checkouts", stats.ActiveCheckouts},
		{"Overdue", stats.OverdueCount},
		{"Due this week", stats.DueThisWeek},
	}
	for _, l := range lines {
		pdf.CellFormat(60, 6, l.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, fmt.Sprintf("%d", l.value), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Overdue items", "", 1, "L", false, 0, "")
	if len(overdue) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(0, 6, "None", "", 1, "L", false, 0, "")
	} else {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(70, 6, "Item", "B", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, "Holder", "B", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, "Due", "B", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, "Days late", "B", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for _, row := range overdue {
			due := ""
			if row.ReturnDate != nil {
				due = row.ReturnDate.Format("2006-01-02")
			}
			t := models.Transaction{
				ActionType: row.ActionType,
				Status:     row.Status,
				ReturnDate: row.ReturnDate,
			}
			pdf.CellFormat(70, 6, row.ItemName, "", 0, "L", false, 0, "")
			pdf.CellFormat(50, 6, row.UserName, "", 0, "L", false, 0, "")
			pdf.CellFormat(35, 6, due, "", 0, "L", false, 0, "")
			pdf.CellFormat(0, 6, fmt.Sprintf("%d", t.DaysOverdue(now)), "", 1, "R", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering report PDF: %w", err)
	}
	return buf.Bytes(), nil
}
