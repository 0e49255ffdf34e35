package report

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"metabolic/internal/analysis"
)

// Chart titles, also used to check the rendered page
const (
	LactateChartTitle = "Lactate Profile"
	VO2ChartTitle     = "VO2 Kinetics"
	FuelChartTitle    = "Fuel Utilization"
)

// Fuel series colours
const (
	fatColor  = "#72B7B2"
	carbColor = "#EF553B"
)

// WriteHTML renders the three curves as an interactive chart page
func WriteHTML(w io.Writer, doc *Document, r *analysis.AnalysisResult) error {
	page := components.NewPage()
	page.PageTitle = doc.Title
	page.AddCharts(
		lactateChart(doc, r.Lactate),
		vo2Chart(r.VO2),
		fuelChart(r.Fuel),
	)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("rendering charts: %w", err)
	}
	return nil
}

func baseOptions(title, subtitle, xName, yName string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{Theme: "macarons"}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:   opts.Bool(true),
			Bottom: "bottom",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: xName,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:         yName,
			NameLocation: "middle",
			NameGap:      40,
		}),
	}
}

func lactateChart(doc *Document, c analysis.LactateCurve) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(baseOptions(LactateChartTitle, doc.ThresholdNote, "Power (W)", "Lactate (mmol/L)")...)

	labels := axisLabels(c.X, "%.0f")
	line.SetXAxis(labels)

	line.AddSeries("Lactate", lineItems(c.Y),
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
		charts.WithMarkLineNameXAxisItemOpts(
			opts.MarkLineNameXAxisItem{Name: "LT1", XAxis: labels[nearestIndex(c.X, c.LT1Power)]},
			opts.MarkLineNameXAxisItem{Name: "LT2", XAxis: labels[nearestIndex(c.X, c.LT2Power)]},
		),
	)
	return line
}

func vo2Chart(c analysis.VO2Curve) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(baseOptions(VO2ChartTitle, "Onset of a constant-intensity bout", "Time (s)", "ml/kg/min")...)
	line.SetXAxis(axisLabels(c.Time, "%.0f"))

	line.AddSeries("O2 Demand", lineItems(c.Demand))
	line.AddSeries("VO2 Uptake", lineItems(c.Uptake),
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
	)
	return line
}

func fuelChart(c analysis.FuelCurve) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(baseOptions(FuelChartTitle, "Illustrative split, not athlete-specific", "Intensity (%)", "kcal/min")...)
	line.SetXAxis(axisLabels(c.Intensity, "%.0f"))

	line.AddSeries("Fat", lineItems(c.FatKcal),
		charts.WithLineChartOpts(opts.LineChart{Stack: "fuel"}),
		charts.WithAreaStyleOpts(opts.AreaStyle{Color: fatColor}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: fatColor}),
	)
	line.AddSeries("Carbohydrates", lineItems(c.CarbKcal),
		charts.WithLineChartOpts(opts.LineChart{Stack: "fuel"}),
		charts.WithAreaStyleOpts(opts.AreaStyle{Color: carbColor}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: carbColor}),
	)
	return line
}

// lineItems converts a float slice to LineData, rounded for display
func lineItems(data []float64) []opts.LineData {
	items := make([]opts.LineData, 0, len(data))
	for _, v := range data {
		items = append(items, opts.LineData{Value: math.Round(v*100) / 100})
	}
	return items
}

func axisLabels(xs []float64, format string) []string {
	labels := make([]string, len(xs))
	for i, x := range xs {
		labels[i] = fmt.Sprintf(format, x)
	}
	return labels
}

// nearestIndex returns the index of the sample closest to v
func nearestIndex(xs []float64, v float64) int {
	best := 0
	for i, x := range xs {
		if math.Abs(x-v) < math.Abs(xs[best]-v) {
			best = i
		}
	}
	return best
}
