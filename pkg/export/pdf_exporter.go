package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders datasets into a basic tabular PDF.
type PDFExporter struct {
	letterhead string
}

// NewPDFExporter constructs a PDF exporter. The letterhead is printed above
// the title on every document, typically the club name.
func NewPDFExporter(letterhead string) *PDFExporter {
	return &PDFExporter{letterhead: letterhead}
}

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if e.letterhead != "" {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 8, e.letterhead, "", 1, "C", false, 0, "")
	}
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

// RenderDocument creates a free-form PDF with a heading and paragraphs, used
// for certificates where a table layout does not apply.
func (e *PDFExporter) RenderDocument(title string, lines []string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 30, 20)
	pdf.AddPage()

	if e.letterhead != "" {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 10, e.letterhead, "", 1, "C", false, 0, "")
		pdf.Ln(4)
	}

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, strings.ToUpper(title), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 12)
	for _, line := range lines {
		pdf.MultiCell(0, 8, line, "", "L", false)
		pdf.Ln(2)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
