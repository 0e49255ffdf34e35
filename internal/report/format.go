package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"metabolic/internal/analysis"
)

// Format is an export format
type Format string

const (
	FormatText Format = "text"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
	FormatHTML Format = "html"
)

// Formats lists every supported format in menu order
var Formats = []Format{FormatText, FormatPDF, FormatXLSX, FormatHTML}

// ErrUnknownFormat is returned for a format name with no writer
var ErrUnknownFormat = errors.New("unknown report format")

// WriteFunc renders a document and its curves to w
type WriteFunc func(w io.Writer, doc *Document, r *analysis.AnalysisResult) error

var writers = map[Format]WriteFunc{
	FormatText: WriteText,
	FormatPDF:  WritePDF,
	FormatXLSX: WriteXLSX,
	FormatHTML: WriteHTML,
}

// ParseFormat maps a config or flag value to a Format
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "txt" {
		f = FormatText
	}
	if _, ok := writers[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
	return f, nil
}

// ParseFormats parses a list of names, dropping duplicates
func ParseFormats(names []string) ([]Format, error) {
	var out []Format
	seen := make(map[Format]bool)
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		f, err := ParseFormat(n)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

// Extension is the file extension for the format, without the dot
func (f Format) Extension() string {
	if f == FormatText {
		return "txt"
	}
	return string(f)
}

// FileName returns metabolic-report-<YYYYMMDD>-<id8>.<ext>
func FileName(doc *Document, f Format) string {
	return fmt.Sprintf("metabolic-report-%s-%s.%s", doc.GeneratedAt.Format("20060102"), doc.ShortID(), f.Extension())
}

// Write renders doc in the given format
func Write(f Format, w io.Writer, doc *Document, r *analysis.AnalysisResult) error {
	fn, ok := writers[f]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if r == nil {
		return ErrNoResult
	}
	return fn(w, doc, r)
}

// WriteText writes the document as plain text, one line per document line
func WriteText(w io.Writer, doc *Document, _ *analysis.AnalysisResult) error {
	_, err := io.WriteString(w, strings.Join(doc.Lines(), "\n")+"\n")
	return err
}
