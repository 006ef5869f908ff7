package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "taskquest/internal/modules/session/dto"
	"taskquest/internal/ui/theme"
)

const keyLayout = "2006-01-02"

type CalendarPort interface {
	Calendar(ctx context.Context, month time.Time) (sessiondto.MonthOutput, error)
}

type LoadedMsg struct {
	Month sessiondto.MonthOutput
	Err   error
}

// SelectedMsg reports that the highlighted day changed.
type SelectedMsg struct {
	Day string
}

// Model is a month grid with a day cursor. Dates are handled as UTC
// calendar dates; only year, month and day matter.
type Model struct {
	port     CalendarPort
	month    sessiondto.MonthOutput
	selected time.Time
	err      error
	focused  bool
	width    int
}

// New starts with today's date selected. today must be YYYY-MM-DD.
func New(port CalendarPort, today string) Model {
	selected, err := time.Parse(keyLayout, today)
	if err != nil {
		selected = time.Now().UTC().Truncate(24 * time.Hour)
	}
	return Model{port: port, selected: selected}
}

func (m Model) SelectedDay() string { return m.selected.Format(keyLayout) }

func (m *Model) SetWidth(w int) { m.width = w }

func (m *Model) SetFocused(focused bool) { m.focused = focused }

// Reload fetches the month containing the selected day.
func (m Model) Reload() tea.Cmd {
	month := time.Date(m.selected.Year(), m.selected.Month(), 1, 0, 0, 0, 0, time.UTC)
	return func() tea.Msg {
		out, err := m.port.Calendar(context.Background(), month)
		return LoadedMsg{Month: out, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.err = msg.Err
		if msg.Err == nil {
			m.month = msg.Month
		}
		return m, nil
	case tea.KeyMsg:
		before := m.selected
		switch msg.String() {
		case "left", "h":
			m.selected = m.selected.AddDate(0, 0, -1)
		case "right", "l":
			m.selected = m.selected.AddDate(0, 0, 1)
		case "up", "k":
			m.selected = m.selected.AddDate(0, 0, -7)
		case "down", "j":
			m.selected = m.selected.AddDate(0, 0, 7)
		case "[":
			m.selected = m.selected.AddDate(0, -1, 0)
		case "]":
			m.selected = m.selected.AddDate(0, 1, 0)
		default:
			return m, nil
		}
		return m, m.moved(before)
	}
	return m, nil
}

// Jump selects day directly.
func (m Model) Jump(day string) (Model, tea.Cmd) {
	target, err := time.Parse(keyLayout, day)
	if err != nil {
		return m, nil
	}
	before := m.selected
	m.selected = target
	return m, m.moved(before)
}

func (m Model) View() string {
	if m.err != nil {
		return m.pane().Render(theme.Error.Render("Calendar unavailable: " + m.err.Error()))
	}
	var sb strings.Builder
	title := m.month.Title
	if title == "" {
		title = m.selected.Format("January 2006")
	}
	sb.WriteString(theme.Title.Render(title) + "\n")
	sb.WriteString(theme.Muted.Render("Su Mo Tu We Th Fr Sa") + "\n")
	selected := m.SelectedDay()
	for _, week := range m.month.Weeks {
		cells := make([]string, len(week))
		for i, cell := range week {
			cells[i] = renderCell(cell, selected)
		}
		sb.WriteString(strings.Join(cells, " ") + "\n")
	}
	sb.WriteString(theme.Muted.Render("colored: has quests  [ ] month"))
	return m.pane().Render(sb.String())
}

func (m Model) moved(before time.Time) tea.Cmd {
	day := m.SelectedDay()
	selectCmd := func() tea.Msg { return SelectedMsg{Day: day} }
	if before.Year() != m.selected.Year() || before.Month() != m.selected.Month() {
		return tea.Batch(m.Reload(), selectCmd)
	}
	return selectCmd
}

func (m Model) pane() lipgloss.Style {
	style := theme.Pane
	if m.focused {
		style = theme.PaneActive
	}
	if m.width > 4 {
		style = style.Width(m.width - 2)
	}
	return style
}

func renderCell(cell sessiondto.DayCell, selected string) string {
	if cell.Key == "" {
		return "  "
	}
	text := fmt.Sprintf("%2d", cell.Day)
	switch {
	case string(cell.Key) == selected:
		return theme.Selected.Render(text)
	case cell.TaskCount > 0:
		return theme.Gem.Render(text)
	case cell.IsToday:
		return theme.Today.Render(text)
	}
	return text
}
