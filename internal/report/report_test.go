package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf16"

	"github.com/xuri/excelize/v2"

	"metabolic/internal/analysis"
)

var testBranding = Branding{Organization: "Lindblom Coaching", Coach: "Alexander Lindblom"}

func testDocument(t *testing.T, notes string) (*Document, *analysis.AnalysisResult) {
	t.Helper()

	p := analysis.AthleteProfile{VO2max: 50, LT1HR: 140, LT2HR: 165, MaxHR: 190, SprintPower: 800}
	r, err := analysis.Analyze(p)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	doc, err := Build(testBranding, p, r, notes, time.Date(2024, 5, 17, 14, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return doc, r
}

func TestBuild(t *testing.T) {
	doc, _ := testDocument(t, "Felt strong")

	if doc.Title != "Lindblom Coaching – Metabolic Test Report" {
		t.Errorf("Title = %q", doc.Title)
	}
	if doc.Byline != "Coach: Alexander Lindblom" {
		t.Errorf("Byline = %q", doc.Byline)
	}
	if len(doc.ID) != 36 {
		t.Errorf("ID = %q, want a UUID", doc.ID)
	}

	wantSummary := []string{
		"VO2max: 50.0 ml/kg/min",
		"LT1 HR: 140 bpm    LT2 HR: 165 bpm    Max HR: 190 bpm",
		"Sprint Power (5s): 800 W",
	}
	for i, want := range wantSummary {
		if doc.SummaryLines[i] != want {
			t.Errorf("SummaryLines[%d] = %q, want %q", i, doc.SummaryLines[i], want)
		}
	}

	wantZones := []string{
		"Zone 1 (Easy/Recovery): 0-140 bpm",
		"Zone 2 (Endurance): 140-152 bpm",
		"Zone 3 (Threshold): 152-165 bpm",
		"Zone 4 (Interval): 165-180 bpm",
		"Zone 5 (Max Effort): 180-190 bpm",
	}
	if len(doc.ZoneLines) != len(wantZones) {
		t.Fatalf("len(ZoneLines) = %d, want %d", len(doc.ZoneLines), len(wantZones))
	}
	for i, want := range wantZones {
		if doc.ZoneLines[i] != want {
			t.Errorf("ZoneLines[%d] = %q, want %q", i, doc.ZoneLines[i], want)
		}
	}

	if !strings.Contains(doc.ThresholdNote, "480 W") || !strings.Contains(doc.ThresholdNote, "720 W") {
		t.Errorf("ThresholdNote = %q, want the 480/720 W markers", doc.ThresholdNote)
	}
	if doc.NotesLine() != "Athlete Notes: Felt strong" {
		t.Errorf("NotesLine() = %q", doc.NotesLine())
	}
}

func TestBuildNoResult(t *testing.T) {
	_, err := Build(testBranding, analysis.AthleteProfile{}, nil, "", time.Now())
	if !errors.Is(err, ErrNoResult) {
		t.Errorf("Build() error = %v, want ErrNoResult", err)
	}
}

func TestNotesVerbatim(t *testing.T) {
	notes := "  Line one\nLine two: 5x3' @ LT2  "
	doc, _ := testDocument(t, notes)

	if doc.Notes != notes {
		t.Errorf("Notes = %q, want %q", doc.Notes, notes)
	}

	empty, _ := testDocument(t, "")
	for _, line := range empty.Lines() {
		if strings.HasPrefix(line, "Athlete Notes") {
			t.Errorf("empty notes produced a notes line: %q", line)
		}
	}
}

func TestWriteText(t *testing.T) {
	doc, r := testDocument(t, "Felt strong")

	var buf bytes.Buffer
	if err := Write(FormatText, &buf, doc, r); err != nil {
		t.Fatalf("Write(text) error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		doc.Title,
		"Coach: Alexander Lindblom",
		"VO2max: 50.0 ml/kg/min",
		ZonesHeader,
		"Zone 5 (Max Effort): 180-190 bpm",
		"Athlete Notes: Felt strong",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q", want)
		}
	}

	// Zones come after the header
	if strings.Index(out, ZonesHeader) > strings.Index(out, "Zone 1 (Easy/Recovery)") {
		t.Error("zone lines printed before the zones header")
	}
}

// pdfTextRun is how fpdf writes s with a UTF-8 font: UTF-16BE with the
// string delimiters escaped
func pdfTextRun(s string) []byte {
	var b []byte
	for _, u := range utf16.Encode([]rune(s)) {
		b = append(b, byte(u>>8), byte(u))
	}
	r := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`, "\r", `\r`)
	return []byte(r.Replace(string(b)))
}

func TestWritePDF(t *testing.T) {
	doc, r := testDocument(t, "Felt strong")

	var buf bytes.Buffer
	if err := Write(FormatPDF, &buf, doc, r); err != nil {
		t.Fatalf("Write(pdf) error = %v", err)
	}

	out := buf.Bytes()
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Errorf("PDF output starts with %q", out[:min(8, len(out))])
	}
	if !bytes.Contains(out, []byte("%%EOF")) {
		t.Error("PDF output has no EOF marker")
	}
}

func TestPDFContent(t *testing.T) {
	notes := "Felt strong → 5×4 min ≥ LT2, VO₂ ok"
	doc, _ := testDocument(t, notes)

	pdf, err := buildPDF(doc)
	if err != nil {
		t.Fatalf("buildPDF() error = %v", err)
	}
	pdf.SetCompression(false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("Output() error = %v", err)
	}
	out := buf.Bytes()

	want := []string{
		doc.Title,
		doc.Byline,
		ZonesHeader,
		"Sprint Power (5s): 800 W",
		"Zone 1 (Easy/Recovery): 0-140 bpm",
		"Zone 5 (Max Effort): 180-190 bpm",
		"Athlete Notes: " + notes,
	}
	for _, s := range want {
		if !bytes.Contains(out, pdfTextRun(s)) {
			t.Errorf("PDF content missing %q", s)
		}
	}
}

func TestPDFUnsupportedText(t *testing.T) {
	tests := []struct {
		name  string
		notes string
	}{
		{"outside basic plane", "Great session 🏃"},
		{"invalid utf-8", "bad \xff byte"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, r := testDocument(t, tt.notes)

			var buf bytes.Buffer
			err := Write(FormatPDF, &buf, doc, r)
			if !errors.Is(err, ErrUnsupportedText) {
				t.Errorf("Write(pdf) error = %v, want ErrUnsupportedText", err)
			}
			if buf.Len() != 0 {
				t.Errorf("wrote %d bytes for rejected text", buf.Len())
			}
		})
	}
}

func TestWriteXLSX(t *testing.T) {
	doc, r := testDocument(t, "Felt strong")

	var buf bytes.Buffer
	if err := Write(FormatXLSX, &buf, doc, r); err != nil {
		t.Fatalf("Write(xlsx) error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := []string{SheetSummary, SheetZones, SheetLactate, SheetVO2, SheetFuel}
	if len(sheets) != len(want) {
		t.Fatalf("sheets = %v, want %v", sheets, want)
	}
	for i := range want {
		if sheets[i] != want[i] {
			t.Errorf("sheet %d = %q, want %q", i, sheets[i], want[i])
		}
	}

	if v, _ := f.GetCellValue(SheetSummary, "A1"); v != doc.Title {
		t.Errorf("Summary!A1 = %q, want %q", v, doc.Title)
	}
	if v, _ := f.GetCellValue(SheetZones, "A2"); v != "Zone 1 (Easy/Recovery)" {
		t.Errorf("Zones!A2 = %q", v)
	}
	if v, _ := f.GetCellValue(SheetZones, "C6"); v != "190" {
		t.Errorf("Zones!C6 = %q, want 190", v)
	}

	lactate, err := f.GetRows(SheetLactate)
	if err != nil {
		t.Fatalf("GetRows(Lactate) error = %v", err)
	}
	if len(lactate) != analysis.LactateSamples+1 {
		t.Errorf("Lactate rows = %d, want %d", len(lactate), analysis.LactateSamples+1)
	}

	vo2, err := f.GetRows(SheetVO2)
	if err != nil {
		t.Fatalf("GetRows(VO2) error = %v", err)
	}
	if len(vo2) != 61 {
		t.Errorf("VO2 rows = %d, want 61", len(vo2))
	}
}

func TestWriteHTML(t *testing.T) {
	doc, r := testDocument(t, "")

	var buf bytes.Buffer
	if err := Write(FormatHTML, &buf, doc, r); err != nil {
		t.Fatalf("Write(html) error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{LactateChartTitle, VO2ChartTitle, FuelChartTitle, "LT1", "LT2", fatColor, carbColor} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML output missing %q", want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"pdf", FormatPDF, false},
		{" XLSX ", FormatXLSX, false},
		{"txt", FormatText, false},
		{"text", FormatText, false},
		{"html", FormatHTML, false},
		{"docx", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("ParseFormat(%q) error = %v, want ErrUnknownFormat", tt.input, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
			}
		})
	}

	formats, err := ParseFormats([]string{"pdf", "", "PDF", "html"})
	if err != nil {
		t.Fatalf("ParseFormats() error = %v", err)
	}
	if len(formats) != 2 || formats[0] != FormatPDF || formats[1] != FormatHTML {
		t.Errorf("ParseFormats() = %v, want [pdf html]", formats)
	}
}

func TestFileName(t *testing.T) {
	doc := &Document{ID: "1b4e28ba-2fa1-11d2-883f-0016d3cca427", GeneratedAt: time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC)}

	tests := []struct {
		format Format
		want   string
	}{
		{FormatText, "metabolic-report-20240517-1b4e28ba.txt"},
		{FormatPDF, "metabolic-report-20240517-1b4e28ba.pdf"},
		{FormatXLSX, "metabolic-report-20240517-1b4e28ba.xlsx"},
		{FormatHTML, "metabolic-report-20240517-1b4e28ba.html"},
	}

	for _, tt := range tests {
		if got := FileName(doc, tt.format); got != tt.want {
			t.Errorf("FileName(%s) = %q, want %q", tt.format, got, tt.want)
		}
	}
}
