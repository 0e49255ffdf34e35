package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"metabolic/internal/analysis"
)

// ErrNoResult is returned when a document is built without an analysis
var ErrNoResult = errors.New("no analysis result")

// ZonesHeader heads the zone listing in every format
const ZonesHeader = "Heart Rate Zones:"

// Branding is the organization and coach printed on the report
type Branding struct {
	Organization string
	Coach        string
}

// Document is the format-independent content of a metabolic test report
type Document struct {
	ID            string
	Title         string
	Byline        string
	GeneratedAt   time.Time
	Profile       analysis.AthleteProfile
	SummaryLines  []string
	ZoneLines     []string
	ThresholdNote string
	Notes         string
}

// Build assembles the report document for a computed analysis.
// Notes are kept verbatim.
func Build(b Branding, p analysis.AthleteProfile, r *analysis.AnalysisResult, notes string, now time.Time) (*Document, error) {
	if r == nil {
		return nil, ErrNoResult
	}

	doc := &Document{
		ID:          uuid.NewString(),
		Title:       fmt.Sprintf("%s – Metabolic Test Report", b.Organization),
		GeneratedAt: now,
		Profile:     p,
		Notes:       notes,
		SummaryLines: []string{
			fmt.Sprintf("VO2max: %.1f ml/kg/min", p.VO2max),
			fmt.Sprintf("LT1 HR: %d bpm    LT2 HR: %d bpm    Max HR: %d bpm", p.LT1HR, p.LT2HR, p.MaxHR),
			fmt.Sprintf("Sprint Power (5s): %.0f W", p.SprintPower),
		},
		ThresholdNote: fmt.Sprintf(
			"Lactate curve markers LT1 %.0f W and LT2 %.0f W are modelled from sprint power and are independent of the heart-rate thresholds.",
			r.Lactate.LT1Power, r.Lactate.LT2Power,
		),
	}
	if b.Coach != "" {
		doc.Byline = "Coach: " + b.Coach
	}

	for _, z := range r.Zones {
		doc.ZoneLines = append(doc.ZoneLines, ZoneLine(z))
	}

	return doc, nil
}

// ZoneLine formats a zone as "Zone 1 (Easy/Recovery): 0-140 bpm"
func ZoneLine(z analysis.HRZone) string {
	return fmt.Sprintf("%s: %.0f-%.0f bpm", z.Label, z.Lower, z.Upper)
}

// NotesLine is the athlete notes line, empty when there are no notes
func (d *Document) NotesLine() string {
	if d.Notes == "" {
		return ""
	}
	return "Athlete Notes: " + d.Notes
}

// ShortID is the first eight characters of the document ID
func (d *Document) ShortID() string {
	if len(d.ID) < 8 {
		return d.ID
	}
	return d.ID[:8]
}

// Lines returns the document as plain text lines in print order.
// Blank strings separate sections.
func (d *Document) Lines() []string {
	lines := []string{d.Title}
	if d.Byline != "" {
		lines = append(lines, d.Byline)
	}
	lines = append(lines, "")
	lines = append(lines, d.SummaryLines...)
	lines = append(lines, "", ZonesHeader)
	lines = append(lines, d.ZoneLines...)
	lines = append(lines, "", d.ThresholdNote)
	if n := d.NotesLine(); n != "" {
		lines = append(lines, "", n)
	}
	return lines
}
