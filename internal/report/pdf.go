package report

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"metabolic/internal/analysis"
)

// pdfFont is the embedded UTF-8 family used for every line of the report
const pdfFont = "Go"

// ErrUnsupportedText is returned when report text cannot be written to a PDF
// unchanged: invalid UTF-8, or characters outside the Basic Multilingual Plane
var ErrUnsupportedText = errors.New("text not supported in PDF")

// WritePDF renders the document as a single A4 page
func WritePDF(w io.Writer, doc *Document, _ *analysis.AnalysisResult) error {
	pdf, err := buildPDF(doc)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

func buildPDF(doc *Document) (*fpdf.Fpdf, error) {
	for _, s := range doc.Lines() {
		if err := checkPDFText(s); err != nil {
			return nil, err
		}
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8FontFromBytes(pdfFont, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(pdfFont, "B", gobold.TTF)
	pdf.AddUTF8FontFromBytes(pdfFont, "I", goitalic.TTF)

	pdf.SetTitle(doc.Title, true)
	pdf.SetAuthor(doc.Byline, true)
	pdf.SetCreationDate(doc.GeneratedAt)
	pdf.AddPage()

	pdf.SetFont(pdfFont, "B", 16)
	pdf.CellFormat(0, 10, doc.Title, "", 1, "C", false, 0, "")
	if doc.Byline != "" {
		pdf.SetFont(pdfFont, "", 12)
		pdf.CellFormat(0, 8, doc.Byline, "", 1, "C", false, 0, "")
	}
	pdf.Ln(10)

	pdf.SetFont(pdfFont, "", 12)
	for _, line := range doc.SummaryLines {
		pdf.CellFormat(0, 10, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)

	pdf.SetFont(pdfFont, "B", 12)
	pdf.CellFormat(0, 10, ZonesHeader, "", 1, "L", false, 0, "")
	pdf.SetFont(pdfFont, "", 12)
	for _, line := range doc.ZoneLines {
		pdf.CellFormat(0, 8, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)

	pdf.SetFont(pdfFont, "I", 10)
	pdf.MultiCell(0, 6, doc.ThresholdNote, "", "L", false)

	// Left aligned so each line is written as one text run
	if notes := doc.NotesLine(); notes != "" {
		pdf.Ln(5)
		pdf.SetFont(pdfFont, "", 12)
		pdf.MultiCell(0, 10, notes, "", "L", false)
	}

	return pdf, pdf.Error()
}

// checkPDFText rejects text fpdf's UTF-16 encoder would garble
func checkPDFText(s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: invalid UTF-8 in %q", ErrUnsupportedText, s)
	}
	for _, r := range s {
		if r > 0xFFFF {
			return fmt.Errorf("%w: character %q (U+%04X)", ErrUnsupportedText, r, r)
		}
	}
	return nil
}
