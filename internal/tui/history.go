package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"metabolic/internal/analysis"
	"metabolic/internal/service"
)

// HistoryModel lists recently analysed profiles from the cache
type HistoryModel struct {
	analysisService *service.AnalysisService
	profiles        []service.RecentProfile
	total           int
	cursor          int
	loading         bool
	err             error
}

// NewHistoryModel creates a new history model
func NewHistoryModel(as *service.AnalysisService) HistoryModel {
	return HistoryModel{
		analysisService: as,
		loading:         true,
	}
}

// LoadProfileMsg asks the app to put a profile back into the form
type LoadProfileMsg struct {
	Profile analysis.AthleteProfile
}

type historyLoadedMsg struct {
	profiles []service.RecentProfile
	total    int
	err      error
}

// Init initializes the history screen
func (m HistoryModel) Init() tea.Cmd {
	return m.loadHistory
}

func (m HistoryModel) loadHistory() tea.Msg {
	profiles, err := m.analysisService.Recent(service.RecentProfilesLimit)
	if err != nil {
		return historyLoadedMsg{err: err}
	}
	total, err := m.analysisService.CacheSize()
	return historyLoadedMsg{profiles: profiles, total: total, err: err}
}

func (m HistoryModel) clearHistory() tea.Msg {
	if err := m.analysisService.ClearCache(); err != nil {
		return historyLoadedMsg{err: err}
	}
	return historyLoadedMsg{}
}

// Update handles messages
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.profiles = msg.profiles
		m.total = msg.total
		if m.cursor >= len(m.profiles) {
			m.cursor = max(0, len(m.profiles)-1)
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.profiles)-1 {
				m.cursor++
			}
		case "r":
			m.loading = true
			return m, m.loadHistory
		case "c":
			m.loading = true
			return m, m.clearHistory
		case "enter":
			if len(m.profiles) > 0 {
				p := m.profiles[m.cursor].Profile
				return m, func() tea.Msg { return LoadProfileMsg{Profile: p} }
			}
		}
	}
	return m, nil
}

// View renders the history screen
func (m HistoryModel) View() string {
	if m.loading {
		return "\n  Loading history..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	title := cardTitleStyle.Render(fmt.Sprintf("Recent Profiles (%d cached)", m.total))

	if len(m.profiles) == 0 {
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "No analyses cached yet"))
	}

	header := tableHeaderStyle.Render(fmt.Sprintf("%-7s  %4s  %4s  %4s  %7s  %5s  %-16s",
		"VO2max", "LT1", "LT2", "Max", "Sprint", "Hits", "Last used"))

	rows := []string{header}
	for i, rp := range m.profiles {
		p := rp.Profile
		line := fmt.Sprintf("%-7.1f  %4d  %4d  %4d  %6.0fW  %5d  %-16s",
			p.VO2max, p.LT1HR, p.LT2HR, p.MaxHR, p.SprintPower, rp.Hits, humanize.Time(rp.LastUsedAt))

		if i == m.cursor {
			rows = append(rows, tableSelectedStyle.Render(line))
		} else {
			rows = append(rows, tableRowStyle.Render(line))
		}
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	help := statusStyle.Render("j/k move  enter load into form  r refresh  c clear cache")

	return lipgloss.JoinVertical(lipgloss.Left, cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table)), help)
}
