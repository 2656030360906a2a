package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// DayReport is the renderable content of one finalized attendance day.
type DayReport struct {
	Day     string
	Title   string
	Present []ReportRow
	Absent  []ReportRow
}

// ReportRow is one student line within a report section.
type ReportRow struct {
	RollNo string
	Name   string
}

// PDFExporter renders a finalized day into the attendance report document.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates the day report: a centered title, the date, then the present
// and absent sections as numbered lists.
func (e *PDFExporter) Render(report DayReport) ([]byte, error) {
	if report.Day == "" {
		return nil, fmt.Errorf("pdf report requires a day")
	}
	title := report.Title
	if title == "" {
		title = "Attendance Report"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 8, fmt.Sprintf("Date: %s", report.Day), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	writeSection(pdf, "Present Students", report.Present)
	pdf.Ln(4)
	writeSection(pdf, "Absent Students", report.Absent)

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSection(pdf *gofpdf.Fpdf, heading string, rows []ReportRow) {
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, heading, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	if len(rows) == 0 {
		pdf.CellFormat(0, 6, "  (none)", "", 1, "L", false, 0, "")
		return
	}
	for i, row := range rows {
		line := fmt.Sprintf("  %d. %s - %s", i+1, row.RollNo, row.Name)
		pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
	}
}
