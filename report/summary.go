// Package report renders leave summaries as PDF documents.
package report

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/warp/leavedesk/leave"
)

// SummaryPDF writes the yearly summary of one employee to w.
func SummaryPDF(w io.Writer, userName string, s leave.Summary, b leave.Balance) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Leave summary %d", s.Year), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Leave summary %d", s.Year))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", userName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Allocated: %d days   Taken: %d days   Remaining: %d days", b.Allocated, s.TotalTaken, b.Remaining))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Planned: %d   Sick: %d   Pending requests: %d", b.PlannedTaken, b.SickTaken, b.Pending))
	pdf.Ln(12)

	headers := []string{"Quarter", "Allocated", "Carried", "Taken", "Remaining"}
	widths := []float64{30, 35, 35, 35, 35}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 11)
	for _, q := range s.Quarters {
		cells := []string{
			q.Name,
			fmt.Sprint(q.Allocated),
			fmt.Sprint(q.CarryForward),
			fmt.Sprint(q.Taken),
			fmt.Sprint(q.Remaining),
		}
		for i, c := range cells {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 8, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(6)

	line := fmt.Sprintf("Optional holidays selected: %d of %d", s.HolidaysUsed, s.HolidaysCap)
	if s.OverHolidayCap() {
		pdf.SetTextColor(180, 0, 0)
		line += " (over the recommended limit)"
	}
	pdf.Cell(0, 8, line)
	pdf.SetTextColor(0, 0, 0)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render summary pdf: %w", err)
	}
	return nil
}
