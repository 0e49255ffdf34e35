package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"metabolic/internal/analysis"
	"metabolic/internal/config"
)

// Banner messages shown above the form
const (
	msgRequiredFields = "Please enter all required fields with valid (non-zero) values."
	msgThresholdOrder = "Ensure that LT1 HR < LT2 HR < Max HR for consistency."
	msgZone5Boundary  = "Ensure that LT2 HR is below 95% of Max HR, where Zone 5 begins."
	msgNoAthlete      = "No athlete in config. Enter the test values and press ctrl+s."
)

// Form field indices. The notes textarea follows the inputs.
const (
	fieldVO2max = iota
	fieldLT1
	fieldLT2
	fieldMaxHR
	fieldSprint
	fieldNotes
	fieldCount
)

// formField describes one numeric input
type formField struct {
	key   string // matches analysis.ValidationError.Field
	label string
	unit  string
	isInt bool
}

var formFields = [fieldNotes]formField{
	{key: "vo2max", label: "VO2max", unit: "ml/kg/min"},
	{key: "lt1_hr", label: "LT1 Heart Rate", unit: "bpm", isInt: true},
	{key: "lt2_hr", label: "LT2 Heart Rate", unit: "bpm", isInt: true},
	{key: "max_hr", label: "Max Heart Rate", unit: "bpm", isInt: true},
	{key: "sprint_power", label: "Sprint Power (5s)", unit: "W"},
}

// SubmitMsg carries a parsed profile from the form to the app
type SubmitMsg struct {
	Profile analysis.AthleteProfile
	Notes   string
}

// FormModel is the athlete data entry screen
type FormModel struct {
	inputs  [fieldNotes]textinput.Model
	notes   textarea.Model
	focus   int
	editing bool
	errs    map[string]string
	banner  string
}

// NewFormModel creates the form, prefilled from the configured athlete
func NewFormModel(athlete config.AthleteConfig) FormModel {
	m := FormModel{errs: make(map[string]string)}

	for i, f := range formFields {
		ti := textinput.New()
		ti.Placeholder = f.unit
		ti.CharLimit = 8
		ti.Width = 12
		ti.Prompt = ""
		m.inputs[i] = ti
	}

	ta := textarea.New()
	ta.Placeholder = "Optional notes for the report"
	ta.ShowLineNumbers = false
	ta.SetWidth(50)
	ta.SetHeight(4)
	m.notes = ta

	m.SetProfile(athlete.Profile())
	m.editing = true
	m.focusField(fieldVO2max)
	return m
}

// SetProfile fills the inputs from p. Zero values leave a field empty.
func (m *FormModel) SetProfile(p analysis.AthleteProfile) {
	m.inputs[fieldVO2max].SetValue(formatFloat(p.VO2max))
	m.inputs[fieldLT1].SetValue(formatInt(p.LT1HR))
	m.inputs[fieldLT2].SetValue(formatInt(p.LT2HR))
	m.inputs[fieldMaxHR].SetValue(formatInt(p.MaxHR))
	m.inputs[fieldSprint].SetValue(formatFloat(p.SprintPower))
	m.errs = make(map[string]string)
	m.banner = ""
}

// Editing reports whether keystrokes go to a field
func (m FormModel) Editing() bool {
	return m.editing
}

// Init initializes the form
func (m FormModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateFocused(msg)
	}

	if !m.editing {
		switch key.String() {
		case "enter", "i":
			m.editing = true
			return m, m.focusField(m.focus)
		}
		return m, nil
	}

	switch key.String() {
	case "esc":
		m.editing = false
		m.blurAll()
		return m, nil
	case "tab":
		return m, m.focusField((m.focus + 1) % fieldCount)
	case "shift+tab":
		return m, m.focusField((m.focus + fieldCount - 1) % fieldCount)
	case "down":
		// Up and down move between lines inside the notes box
		if m.focus != fieldNotes {
			return m, m.focusField(m.focus + 1)
		}
	case "up":
		if m.focus != fieldNotes && m.focus > 0 {
			return m, m.focusField(m.focus - 1)
		}
	case "ctrl+s":
		return m.submit()
	case "enter":
		// Enter inserts a newline in the notes box
		if m.focus == fieldNotes {
			break
		}
		if m.focus == fieldSprint {
			return m.submit()
		}
		return m, m.focusField(m.focus + 1)
	}

	return m.updateFocused(msg)
}

func (m FormModel) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == fieldNotes {
		m.notes, cmd = m.notes.Update(msg)
	} else {
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	}
	return m, cmd
}

func (m *FormModel) focusField(i int) tea.Cmd {
	m.blurAll()
	m.focus = i
	if !m.editing {
		return nil
	}
	if i == fieldNotes {
		return m.notes.Focus()
	}
	return m.inputs[i].Focus()
}

func (m *FormModel) blurAll() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.notes.Blur()
}

// submit parses the inputs and emits a SubmitMsg when every field is a
// positive number. Ordering rules are left to the calculator.
func (m FormModel) submit() (tea.Model, tea.Cmd) {
	p, errs := m.parse()
	m.errs = errs
	if len(errs) > 0 {
		m.banner = msgRequiredFields
		return m, nil
	}

	m.banner = ""
	notes := m.notes.Value()
	return m, func() tea.Msg {
		return SubmitMsg{Profile: p, Notes: notes}
	}
}

// parse reads the five inputs, collecting per-field errors
func (m FormModel) parse() (analysis.AthleteProfile, map[string]string) {
	var p analysis.AthleteProfile
	errs := make(map[string]string)

	values := [fieldNotes]float64{}
	for i, f := range formFields {
		raw := strings.TrimSpace(m.inputs[i].Value())
		if raw == "" {
			errs[f.key] = "required"
			continue
		}

		var v float64
		var err error
		if f.isInt {
			var n int
			n, err = strconv.Atoi(raw)
			v = float64(n)
		} else {
			v, err = strconv.ParseFloat(raw, 64)
		}
		if err != nil {
			errs[f.key] = "not a number"
			continue
		}
		if v <= 0 {
			errs[f.key] = "must be greater than zero"
			continue
		}
		values[i] = v
	}

	p.VO2max = values[fieldVO2max]
	p.LT1HR = int(values[fieldLT1])
	p.LT2HR = int(values[fieldLT2])
	p.MaxHR = int(values[fieldMaxHR])
	p.SprintPower = values[fieldSprint]
	return p, errs
}

// SetError shows a calculator error next to the offending field
func (m *FormModel) SetError(err error) {
	m.errs = make(map[string]string)

	var verr *analysis.ValidationError
	if !errors.As(err, &verr) {
		m.banner = err.Error()
		return
	}

	m.errs[verr.Field] = verr.Message
	switch {
	case errors.Is(err, analysis.ErrLT2InZone5):
		m.banner = msgZone5Boundary
	case errors.Is(err, analysis.ErrInvalidProfile) && verr.Field != "vo2max":
		m.banner = msgThresholdOrder
	default:
		m.banner = msgRequiredFields
	}

	for i, f := range formFields {
		if f.key == verr.Field {
			m.focusField(i)
		}
	}
}

// View renders the form
func (m FormModel) View() string {
	var lines []string

	lines = append(lines, cardTitleStyle.Render("Athlete Data Entry"))
	if m.banner != "" {
		lines = append(lines, errorStyle.Render(m.banner), "")
	}

	for i, f := range formFields {
		labelStyle := fieldLabelStyle
		if m.editing && m.focus == i {
			labelStyle = fieldFocusedLabelStyle
		}

		row := lipgloss.JoinHorizontal(lipgloss.Left,
			labelStyle.Render(f.label),
			m.inputs[i].View(),
			" "+mutedStyle.Render(f.unit),
		)
		if msg, ok := m.errs[f.key]; ok {
			row += "  " + errorStyle.Render(msg)
		}
		lines = append(lines, row)
	}

	notesLabel := fieldLabelStyle
	if m.editing && m.focus == fieldNotes {
		notesLabel = fieldFocusedLabelStyle
	}
	lines = append(lines, "", notesLabel.Render("Athlete Notes"), m.notes.View())

	var help string
	if m.editing {
		help = "tab/shift+tab move  enter next  ctrl+s calculate  esc stop editing"
	} else {
		help = "enter or i to edit  2 results  3 export  4 history  ? help  q quit"
	}
	lines = append(lines, statusStyle.Render(help))

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func formatFloat(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatInt(v int) string {
	if v == 0 {
		return ""
	}
	return fmt.Sprintf("%d", v)
}
