package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/cli/browser"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"metabolic/internal/report"
	"metabolic/internal/service"
)

// formatKeys maps a toggle key to its format
var formatKeys = []struct {
	key    string
	format report.Format
	label  string
}{
	{"t", report.FormatText, "Plain text"},
	{"p", report.FormatPDF, "PDF report"},
	{"x", report.FormatXLSX, "Excel workbook"},
	{"h", report.FormatHTML, "HTML charts"},
}

// openFunc opens an exported file. Replaced in tests.
var openFunc = browser.OpenFile

// ExportModel is the report export screen
type ExportModel struct {
	reportService *service.ReportService
	run           *service.AnalysisRun
	notes         string
	selected      map[report.Format]bool
	files         []service.ExportedFile
	exporting     bool
	status        string
	err           error
}

// NewExportModel creates an export model with the configured formats selected
func NewExportModel(rs *service.ReportService) ExportModel {
	selected := make(map[report.Format]bool)
	for _, f := range rs.DefaultFormats() {
		selected[f] = true
	}
	return ExportModel{
		reportService: rs,
		selected:      selected,
	}
}

// SetAnalysis sets the analysis and notes the next export uses
func (m *ExportModel) SetAnalysis(run *service.AnalysisRun, notes string) {
	m.run = run
	m.notes = notes
	m.files = nil
	m.status = ""
	m.err = nil
}

// Init initializes the export screen
func (m ExportModel) Init() tea.Cmd {
	return nil
}

type exportDoneMsg struct {
	files []service.ExportedFile
	err   error
}

type openDoneMsg struct {
	path string
	err  error
}

// Update handles messages
func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case exportDoneMsg:
		m.exporting = false
		m.files = msg.files
		m.err = msg.err
		if msg.err == nil {
			m.status = fmt.Sprintf("Exported %d file(s) to %s", len(msg.files), m.reportService.OutputDir())
		}

	case openDoneMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("opening %s: %w", msg.path, msg.err)
		} else {
			m.status = "Opened " + msg.path
		}

	case tea.KeyMsg:
		if m.exporting {
			return m, nil
		}
		for _, fk := range formatKeys {
			if msg.String() == fk.key {
				m.selected[fk.format] = !m.selected[fk.format]
				return m, nil
			}
		}
		switch msg.String() {
		case "e", "enter":
			if m.run == nil {
				m.err = fmt.Errorf("no analysis to export, calculate one first")
				return m, nil
			}
			formats := m.selectedFormats()
			if len(formats) == 0 {
				m.err = fmt.Errorf("select at least one format")
				return m, nil
			}
			m.exporting = true
			m.err = nil
			m.status = ""
			return m, m.export(formats)
		case "o":
			if path := m.htmlPath(); path != "" {
				return m, openFile(path)
			}
			m.err = fmt.Errorf("no HTML export to open, export with 'h' selected first")
		}
	}
	return m, nil
}

func (m ExportModel) selectedFormats() []report.Format {
	var formats []report.Format
	for _, f := range report.Formats {
		if m.selected[f] {
			formats = append(formats, f)
		}
	}
	return formats
}

func (m ExportModel) htmlPath() string {
	for _, f := range m.files {
		if f.Format == report.FormatHTML {
			return f.Path
		}
	}
	return ""
}

func (m ExportModel) export(formats []report.Format) tea.Cmd {
	rs, run, notes := m.reportService, m.run, m.notes
	return func() tea.Msg {
		doc, err := rs.Build(run.Profile, run.Result, notes)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		files, err := rs.Export(context.Background(), doc, run.Result, formats)
		return exportDoneMsg{files: files, err: err}
	}
}

func openFile(path string) tea.Cmd {
	return func() tea.Msg {
		return openDoneMsg{path: path, err: openFunc(path)}
	}
}

// View renders the export screen
func (m ExportModel) View() string {
	var sections []string

	title := cardTitleStyle.Render("Export Report")

	var lines []string
	if m.run == nil {
		lines = append(lines, mutedStyle.Render("No analysis yet. Calculate a profile on the form first."), "")
	} else {
		p := m.run.Profile
		lines = append(lines, RenderMetric("Profile", fmt.Sprintf("VO2max %.1f  LT1 %d  LT2 %d  Max %d  Sprint %.0f W",
			p.VO2max, p.LT1HR, p.LT2HR, p.MaxHR, p.SprintPower)), "")
	}

	for _, fk := range formatKeys {
		box := "[ ]"
		if m.selected[fk.format] {
			box = successStyle.Render("[x]")
		}
		lines = append(lines, fmt.Sprintf("%s %s  %s", box, helpKeyStyle.Render(fk.key), fk.label))
	}
	lines = append(lines, "", RenderMetric("Output directory", m.reportService.OutputDir()))

	sections = append(sections, cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines, "\n"))))

	if m.exporting {
		sections = append(sections, "\n  Exporting...")
	}

	if len(m.files) > 0 {
		sections = append(sections, m.renderFiles())
	}

	if m.err != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	} else if m.status != "" {
		sections = append(sections, successStyle.Render(m.status))
	}

	sections = append(sections, statusStyle.Render("t/p/x/h toggle format  e export  o open HTML charts"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ExportModel) renderFiles() string {
	title := cardTitleStyle.Render("Written Files")

	header := tableHeaderStyle.Render(fmt.Sprintf("%-6s  %9s  %s", "Format", "Size", "Path"))
	rows := []string{header}
	for _, f := range m.files {
		rows = append(rows, tableRowStyle.Render(fmt.Sprintf("%-6s  %9s  %s",
			f.Format, humanize.Bytes(uint64(f.Size)), f.Path)))
	}

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinVertical(lipgloss.Left, rows...)))
}
