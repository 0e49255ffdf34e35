package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"metabolic/internal/analysis"
	"metabolic/internal/config"
	"metabolic/internal/report"
	"metabolic/internal/service"
)

// ResultsModel shows the zones and the three curves for the last analysis
type ResultsModel struct {
	run      *service.AnalysisRun
	display  config.DisplayConfig
	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

// NewResultsModel creates a results model
func NewResultsModel(display config.DisplayConfig, width, height int) ResultsModel {
	if display.ChartHeight <= 0 {
		display.ChartHeight = 8
	}
	if display.ChartWidth <= 0 {
		display.ChartWidth = 60
	}

	m := ResultsModel{
		display: display,
		width:   width,
		height:  height,
	}

	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-6) // Reserve space for header/footer
		m.ready = true
	}

	return m
}

// SetRun replaces the displayed analysis
func (m *ResultsModel) SetRun(run *service.AnalysisRun) {
	m.run = run
	if m.ready {
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()
	}
}

// Init initializes the results screen
func (m ResultsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m ResultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		if m.run != nil {
			m.viewport.SetContent(m.renderContent())
		}
	}

	// Handle viewport scrolling
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the results screen
func (m ResultsModel) View() string {
	if m.run == nil {
		return "\n  No analysis yet. Press '1' and fill in the athlete data."
	}
	if !m.ready {
		return m.renderContent()
	}
	return m.viewport.View()
}

func (m ResultsModel) renderContent() string {
	r := m.run.Result
	var sections []string

	top := lipgloss.JoinHorizontal(lipgloss.Top, m.renderProfileCard(), "  ", m.renderZonesCard(r.Zones))
	sections = append(sections, top)
	sections = append(sections, m.renderLactateCard(r.Lactate))
	sections = append(sections, m.renderVO2Card(r.VO2))
	sections = append(sections, m.renderFuelCard(r.Fuel))
	sections = append(sections, statusStyle.Render("up/down scroll  3 export  1 edit profile"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ResultsModel) renderProfileCard() string {
	p := m.run.Profile
	title := cardTitleStyle.Render("Athlete Profile")

	lines := []string{
		RenderMetric("VO2max", fmt.Sprintf("%.1f ml/kg/min", p.VO2max)),
		RenderMetric("LT1 HR", m.heartRate(p.LT1HR)),
		RenderMetric("LT2 HR", m.heartRate(p.LT2HR)),
		RenderMetric("Max HR", m.heartRate(p.MaxHR)),
		RenderMetric("Sprint Power (5s)", fmt.Sprintf("%.0f W", p.SprintPower)),
	}
	if m.run.Cached {
		lines = append(lines, "", warningStyle.Render("from cache"))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(40).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

// heartRate formats hr with the training zone it falls in
func (m ResultsModel) heartRate(hr int) string {
	s := fmt.Sprintf("%d bpm", hr)
	if z := analysis.ZoneFor(m.run.Result.Zones, float64(hr)); z >= 0 {
		s += fmt.Sprintf(" (Z%d)", z+1)
	}
	return s
}

func (m ResultsModel) renderZonesCard(zones []analysis.HRZone) string {
	title := cardTitleStyle.Render("Heart Rate Zones")

	var rows []string
	for i, z := range zones {
		rows = append(rows, zoneStyle(i).Render(report.ZoneLine(z)))
	}

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(rows, "\n")))
}

func (m ResultsModel) renderLactateCard(c analysis.LactateCurve) string {
	title := cardTitleStyle.Render("Lactate Profile")
	sprint := m.run.Profile.SprintPower

	graph := asciigraph.Plot(c.Y,
		asciigraph.Height(m.display.ChartHeight),
		asciigraph.Width(m.display.ChartWidth),
		asciigraph.Precision(1),
		asciigraph.Caption(fmt.Sprintf("lactate (mmol/L), %.0f-%.0f W", c.X[0], c.X[len(c.X)-1])),
	)

	markers := []string{
		RenderMetric("LT1 marker", fmt.Sprintf("%.0f W  %.1f mmol/L", c.LT1Power, analysis.LactateAt(c.LT1Power, sprint))),
		RenderMetric("LT2 marker", fmt.Sprintf("%.0f W  %.1f mmol/L", c.LT2Power, analysis.LactateAt(c.LT2Power, sprint))),
		mutedStyle.Render("Markers come from sprint power, not from the heart-rate thresholds."),
	}

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph, "", strings.Join(markers, "\n")))
}

func (m ResultsModel) renderVO2Card(c analysis.VO2Curve) string {
	title := cardTitleStyle.Render("VO2 Kinetics")

	graph := asciigraph.PlotMany([][]float64{c.Demand, c.Uptake},
		asciigraph.Height(m.display.ChartHeight),
		asciigraph.Width(m.display.ChartWidth),
		asciigraph.Precision(1),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green),
		asciigraph.Caption("ml/kg/min over 0-295 s: demand (red), uptake (green)"),
	)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph))
}

func (m ResultsModel) renderFuelCard(c analysis.FuelCurve) string {
	title := cardTitleStyle.Render("Fuel Utilization")

	graph := asciigraph.PlotMany([][]float64{c.FatKcal, c.CarbKcal},
		asciigraph.Height(m.display.ChartHeight),
		asciigraph.Width(m.display.ChartWidth),
		asciigraph.Precision(1),
		asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Red),
		asciigraph.Caption("kcal/min over 50-100% intensity: fat (cyan), carbohydrate (red)"),
	)

	header := tableHeaderStyle.Render(fmt.Sprintf("%-10s  %6s  %6s  %9s", "Intensity", "Fat", "Carbs", "kcal/min"))
	rows := []string{header}
	for i := 0; i < len(c.Intensity); i += 5 {
		rows = append(rows, tableRowStyle.Render(fmt.Sprintf("%-10s  %5.0f%%  %5.0f%%  %9.1f",
			fmt.Sprintf("%.0f%%", c.Intensity[i]), c.FatPct[i], c.CarbPct[i], c.TotalKcal[i])))
	}

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph, "", lipgloss.JoinVertical(lipgloss.Left, rows...)))
}
