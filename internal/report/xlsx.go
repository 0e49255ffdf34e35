package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"metabolic/internal/analysis"
)

// Sheet names in the exported workbook
const (
	SheetSummary = "Summary"
	SheetZones   = "Zones"
	SheetLactate = "Lactate"
	SheetVO2     = "VO2 Kinetics"
	SheetFuel    = "Fuel Split"
)

// WriteXLSX writes a workbook with the summary, the zones and one sheet per curve
func WriteXLSX(w io.Writer, doc *Document, r *analysis.AnalysisResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	for _, name := range []string{SheetZones, SheetLactate, SheetVO2, SheetFuel} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#7C3AED"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	title, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err != nil {
		return fmt.Errorf("creating title style: %w", err)
	}

	if err := writeSummarySheet(f, doc, r, title); err != nil {
		return err
	}

	var zoneRows [][]any
	for _, z := range r.Zones {
		zoneRows = append(zoneRows, []any{z.Label, z.Lower, z.Upper})
	}
	if err := writeTable(f, SheetZones, header, []string{"Zone", "Lower (bpm)", "Upper (bpm)"}, zoneRows); err != nil {
		return err
	}

	var lactateRows [][]any
	for i := range r.Lactate.X {
		lactateRows = append(lactateRows, []any{r.Lactate.X[i], r.Lactate.Y[i], analysis.LactateBand(r.Lactate.Y[i])})
	}
	if err := writeTable(f, SheetLactate, header, []string{"Power (W)", "Lactate (mmol/L)", "Band"}, lactateRows); err != nil {
		return err
	}

	var vo2Rows [][]any
	for i := range r.VO2.Time {
		vo2Rows = append(vo2Rows, []any{r.VO2.Time[i], r.VO2.Demand[i], r.VO2.Uptake[i]})
	}
	if err := writeTable(f, SheetVO2, header, []string{"Time (s)", "O2 Demand (ml/kg/min)", "VO2 Uptake (ml/kg/min)"}, vo2Rows); err != nil {
		return err
	}

	fuel := r.Fuel
	var fuelRows [][]any
	for i := range fuel.Intensity {
		fuelRows = append(fuelRows, []any{fuel.Intensity[i], fuel.FatPct[i], fuel.CarbPct[i], fuel.TotalKcal[i], fuel.FatKcal[i], fuel.CarbKcal[i]})
	}
	fuelHeader := []string{"Intensity (%)", "Fat (%)", "Carbs (%)", "Total (kcal/min)", "Fat (kcal/min)", "Carbs (kcal/min)"}
	if err := writeTable(f, SheetFuel, header, fuelHeader, fuelRows); err != nil {
		return err
	}

	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, doc *Document, r *analysis.AnalysisResult, titleStyle int) error {
	p := doc.Profile
	rows := [][]any{
		{doc.Title},
		{doc.Byline},
		{},
		{"Report ID", doc.ID},
		{"Generated", doc.GeneratedAt.Format("2006-01-02 15:04")},
		{"VO2max (ml/kg/min)", p.VO2max},
		{"LT1 HR (bpm)", p.LT1HR},
		{"LT2 HR (bpm)", p.LT2HR},
		{"Max HR (bpm)", p.MaxHR},
		{"Sprint Power 5s (W)", p.SprintPower},
		{"LT1 marker (W)", r.Lactate.LT1Power},
		{"LT2 marker (W)", r.Lactate.LT2Power},
		{},
		{doc.ThresholdNote},
	}
	if doc.Notes != "" {
		rows = append(rows, []any{}, []any{"Athlete Notes", doc.Notes})
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SheetSummary, cell, &row); err != nil {
			return fmt.Errorf("writing summary row %d: %w", i+1, err)
		}
	}

	if err := f.MergeCell(SheetSummary, "A1", "D1"); err != nil {
		return fmt.Errorf("merging title: %w", err)
	}
	if err := f.SetCellStyle(SheetSummary, "A1", "A1", titleStyle); err != nil {
		return fmt.Errorf("styling title: %w", err)
	}
	if err := f.SetColWidth(SheetSummary, "A", "A", 24); err != nil {
		return err
	}
	return f.SetColWidth(SheetSummary, "B", "B", 40)
}

// writeTable writes a styled header row followed by data rows
func writeTable(f *excelize.File, sheet string, headerStyle int, header []string, rows [][]any) error {
	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("writing %s header: %w", sheet, err)
	}

	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("styling %s header: %w", sheet, err)
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+2, err)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(header))
	return f.SetColWidth(sheet, "A", lastCol, 22)
}
