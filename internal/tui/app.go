package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"metabolic/internal/config"
	"metabolic/internal/service"
)

// Screen identifiers
type Screen int

const (
	ScreenForm Screen = iota
	ScreenResults
	ScreenExport
	ScreenHistory
	ScreenHelp
)

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	// Screen models
	form    FormModel
	results ResultsModel
	export  ExportModel
	history HistoryModel
	help    HelpModel

	// Services
	analysisService *service.AnalysisService
	reportService   *service.ReportService

	title string

	// Window dimensions
	width  int
	height int

	// Status message
	status string
}

// NewApp creates a new App with all dependencies
func NewApp(cfg *config.Config, analysisService *service.AnalysisService, reportService *service.ReportService) *App {
	title := "Metabolic Analysis"
	if cfg.Report.Organization != "" {
		title = cfg.Report.Organization + " - " + title
	}

	var status string
	if cfg.Athlete.IsZero() {
		status = msgNoAthlete
	}

	return &App{
		screen:          ScreenForm,
		status:          status,
		analysisService: analysisService,
		reportService:   reportService,
		title:           title,
		form:            NewFormModel(cfg.Athlete),
		results:         NewResultsModel(cfg.Display, 0, 0),
		export:          NewExportModel(reportService),
		history:         NewHistoryModel(analysisService),
		help:            NewHelpModel(),
	}
}

// analysisDoneMsg is sent when a submitted profile has been analysed
type analysisDoneMsg struct {
	run   *service.AnalysisRun
	notes string
	err   error
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	return a.form.Init()
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		// Global keybindings (unless typing into the form)
		if a.screen != ScreenForm || !a.form.Editing() {
			switch msg.String() {
			case "q":
				return a, tea.Quit
			case "1":
				a.screen = ScreenForm
				return a, nil
			case "2":
				a.screen = ScreenResults
				return a, nil
			case "3":
				a.screen = ScreenExport
				return a, a.export.Init()
			case "4":
				a.screen = ScreenHistory
				a.history = NewHistoryModel(a.analysisService)
				return a, a.history.Init()
			case "?":
				if a.screen != ScreenHelp {
					a.prevScreen = a.screen
				}
				a.screen = ScreenHelp
				return a, nil
			case "esc":
				if a.screen == ScreenHelp {
					a.screen = a.prevScreen
					return a, nil
				}
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// The results viewport tracks the window even when hidden
		m, cmd := a.results.Update(msg)
		a.results = m.(ResultsModel)
		return a, cmd

	case SubmitMsg:
		a.status = "Calculating..."
		return a, a.analyze(msg)

	case analysisDoneMsg:
		if msg.err != nil {
			a.status = ""
			a.form.SetError(msg.err)
			a.screen = ScreenForm
			return a, nil
		}
		a.results.SetRun(msg.run)
		a.export.SetAnalysis(msg.run, msg.notes)
		a.status = "Analysis complete"
		if msg.run.Cached {
			a.status = "Analysis loaded from cache"
		}
		a.screen = ScreenResults
		return a, nil

	case LoadProfileMsg:
		a.form.SetProfile(msg.Profile)
		a.screen = ScreenForm
		a.status = "Profile loaded, press ctrl+s to calculate"
		return a, nil

	// Async results are routed to their owning screen so they land even
	// after the user has switched away
	case exportDoneMsg, openDoneMsg:
		m, cmd := a.export.Update(msg)
		a.export = m.(ExportModel)
		return a, cmd

	case historyLoadedMsg:
		m, cmd := a.history.Update(msg)
		a.history = m.(HistoryModel)
		return a, cmd
	}

	// Delegate to current screen
	var cmd tea.Cmd
	switch a.screen {
	case ScreenForm:
		var m tea.Model
		m, cmd = a.form.Update(msg)
		a.form = m.(FormModel)
	case ScreenResults:
		var m tea.Model
		m, cmd = a.results.Update(msg)
		a.results = m.(ResultsModel)
	case ScreenExport:
		var m tea.Model
		m, cmd = a.export.Update(msg)
		a.export = m.(ExportModel)
	case ScreenHistory:
		var m tea.Model
		m, cmd = a.history.Update(msg)
		a.history = m.(HistoryModel)
	case ScreenHelp:
		var m tea.Model
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}

	return a, cmd
}

func (a *App) analyze(msg SubmitMsg) tea.Cmd {
	svc := a.analysisService
	return func() tea.Msg {
		run, err := svc.Analyze(context.Background(), msg.Profile)
		return analysisDoneMsg{run: run, notes: msg.Notes, err: err}
	}
}

// View renders the app
func (a *App) View() string {
	header := a.renderHeader()
	nav := a.renderNav()

	var content string
	switch a.screen {
	case ScreenForm:
		content = a.form.View()
	case ScreenResults:
		content = a.results.View()
	case ScreenExport:
		content = a.export.View()
	case ScreenHistory:
		content = a.history.View()
	case ScreenHelp:
		content = a.help.View()
	}

	footer := a.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, nav, content, footer)
}

func (a *App) renderHeader() string {
	return headerStyle.Render(a.title)
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Form", ScreenForm},
		{"2", "Results", ScreenResults},
		{"3", "Export", ScreenExport},
		{"4", "History", ScreenHistory},
		{"?", "Help", ScreenHelp},
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}

		label := "[" + item.key + "] " + item.label
		if a.screen == item.screen {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	nav += "  " + navInactiveStyle.Render("[q] Quit")

	return navStyle.Render(nav)
}

func (a *App) renderFooter() string {
	if a.status != "" {
		return statusStyle.Render(a.status)
	}
	return ""
}
