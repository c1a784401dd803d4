package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders datasets into a basic tabular PDF and attendance
// certificates into a landscape layout.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	pdf.SetFont("Arial", "B", 10)
	colWidth := 190.0 / float64(len(data.Headers))
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			value := row[header]
			pdf.CellFormat(colWidth, 7, value, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderCertificate creates a single-page landscape attendance certificate
// naming the attendee, the event and its date.
func (e *PDFExporter) RenderCertificate(attendee, eventTitle string, eventDate time.Time) ([]byte, error) {
	if attendee == "" || eventTitle == "" {
		return nil, fmt.Errorf("certificate requires attendee and event title")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	width, height := pdf.GetPageSize()

	pdf.SetLineWidth(1.2)
	pdf.SetDrawColor(30, 64, 124)
	pdf.Rect(8, 8, width-16, height-16, "D")
	pdf.SetLineWidth(0.3)
	pdf.Rect(11, 11, width-22, height-22, "D")

	pdf.SetY(35)
	pdf.SetFont("Times", "B", 30)
	pdf.CellFormat(0, 14, "CERTIFICATE OF ATTENDANCE", "", 1, "C", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Arial", "", 13)
	pdf.CellFormat(0, 8, "This certificate is proudly presented to", "", 1, "C", false, 0, "")

	pdf.Ln(4)
	pdf.SetFont("Times", "BI", 26)
	pdf.CellFormat(0, 14, attendee, "", 1, "C", false, 0, "")

	pdf.Ln(4)
	pdf.SetFont("Arial", "", 13)
	pdf.CellFormat(0, 8, "for attending", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "B", 17)
	pdf.CellFormat(0, 11, eventTitle, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("held on %s", eventDate.Format("January 2, 2006")), "", 1, "C", false, 0, "")

	pdf.SetY(height - 40)
	pdf.SetFont("Arial", "I", 10)
	pdf.CellFormat(0, 6, "Alumni Relations Office", "", 1, "C", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render certificate pdf: %w", err)
	}
	return buf.Bytes(), nil
}
