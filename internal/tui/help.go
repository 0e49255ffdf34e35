package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModel is the help screen model
type HelpModel struct{}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the help screen
func (m HelpModel) View() string {
	var sections []string

	sections = append(sections, cardTitleStyle.Render("Keyboard Shortcuts"))

	sections = append(sections, m.renderSection("Navigation", []keyHelp{
		{"1", "Athlete form"},
		{"2", "Results"},
		{"3", "Export"},
		{"4", "History"},
		{"?", "Help (this screen)"},
		{"q", "Quit (ctrl+c while editing)"},
		{"esc", "Back / close help"},
	}))

	sections = append(sections, m.renderSection("Athlete Form", []keyHelp{
		{"tab / shift+tab", "Next / previous field"},
		{"enter", "Next field, calculate on the last one"},
		{"ctrl+s", "Calculate"},
		{"esc", "Stop editing so navigation keys work"},
		{"enter / i", "Resume editing"},
	}))

	sections = append(sections, m.renderSection("Results", []keyHelp{
		{"up / down", "Scroll"},
		{"pgup / pgdn", "Page"},
	}))

	sections = append(sections, m.renderSection("Export", []keyHelp{
		{"t p x h", "Toggle text, PDF, Excel, HTML"},
		{"e", "Export selected formats"},
		{"o", "Open the HTML charts in a browser"},
	}))

	sections = append(sections, m.renderSection("History", []keyHelp{
		{"j / down", "Move cursor down"},
		{"k / up", "Move cursor up"},
		{"enter", "Load profile into the form"},
		{"c", "Clear the cache"},
	}))

	sections = append(sections, m.renderModelsHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

type keyHelp struct {
	key  string
	desc string
}

func (m HelpModel) renderSection(title string, keys []keyHelp) string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, sectionTitleStyle.Render(title))

	for _, k := range keys {
		lines = append(lines, "  "+RenderKeyHelp(k.key, k.desc))
	}

	return strings.Join(lines, "\n")
}

func (m HelpModel) renderModelsHelp() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, sectionTitleStyle.Render("Models Explained"))
	lines = append(lines, "")

	models := []struct {
		name string
		desc string
	}{
		{"Heart rate zones", "Five zones from LT1, LT2 and max HR. Zone 5 starts at 95% of max."},
		{"Lactate profile", "Piecewise model over 40-110% of sprint power. LT1/LT2 markers sit at 60% and 90%."},
		{"VO2 kinetics", "Uptake rises toward 85% of VO2max with a 40 s time constant."},
		{"Fuel utilization", "Illustrative fat/carb split from 50% to 100% intensity, the same for every athlete."},
	}

	for _, model := range models {
		lines = append(lines, "  "+helpKeyStyle.Render(model.name))
		lines = append(lines, "  "+mutedStyle.Render(model.desc))
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
