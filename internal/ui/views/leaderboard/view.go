package leaderboard

import (
	"fmt"
	"strings"

	scoredto "taskquest/internal/modules/score/dto"
	"taskquest/internal/ui/theme"
)

// Model renders the recent daily totals.
type Model struct {
	rows  []scoredto.EntryOutput
	best  int
	width int
}

func New() Model { return Model{} }

func (m *Model) SetRows(rows []scoredto.EntryOutput, best int) {
	m.rows = rows
	m.best = best
}

func (m *Model) SetWidth(w int) { m.width = w }

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Leaderboard") + "  " + theme.Muted.Render(fmt.Sprintf("best %d", m.best)) + "\n")
	if len(m.rows) == 0 {
		sb.WriteString(theme.Muted.Render("Complete a quest to earn your first points."))
		return m.frame(sb.String())
	}
	for i, row := range m.rows {
		label := fmt.Sprintf("%d. %-14s", i+1, row.Label)
		points := fmt.Sprintf("%5d", row.Points)
		switch {
		case row.IsHighScore:
			sb.WriteString(theme.Gold.Render(label + points + " ★"))
		case row.IsToday:
			sb.WriteString(theme.Hot.Render(label + points))
		default:
			sb.WriteString(label + points)
		}
		sb.WriteString("\n")
	}
	return m.frame(strings.TrimRight(sb.String(), "\n"))
}

func (m Model) frame(body string) string {
	style := theme.Pane
	if m.width > 4 {
		style = style.Width(m.width - 2)
	}
	return style.Render(body)
}
