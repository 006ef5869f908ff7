package quests

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	questdto "taskquest/internal/modules/quest/dto"
	"taskquest/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type QuestPort interface {
	TasksForDay(ctx context.Context, day string) ([]questdto.TaskOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Day   string
	Tasks []questdto.TaskOutput
	Err   error
}

// ─── list item ───────────────────────────────────────────────────────────────

type taskItem struct {
	task questdto.TaskOutput
}

func (i taskItem) Title() string {
	if i.task.Completed {
		return "✓ " + i.task.Description
	}
	return "○ " + i.task.Description
}

func (i taskItem) Description() string {
	return fmt.Sprintf("%s  %d pts", i.task.DueDate.Local().Format("15:04"), i.task.Points)
}

func (i taskItem) FilterValue() string { return i.task.Description }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port   QuestPort
	list   list.Model
	story  viewport.Model
	day    string
	err    error
	width  int
	height int
}

func New(port QuestPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Quests"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.SetStatusBarItemName("quest", "quests")

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Foreground(theme.Text)

	return Model{port: port, list: l, story: vp}
}

// Load fetches the quests due on day.
func (m Model) Load(day string) tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.port.TasksForDay(context.Background(), day)
		return LoadedMsg{Day: day, Tasks: tasks, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case LoadedMsg:
		m.day = msg.Day
		m.err = msg.Err
		if msg.Err != nil {
			return m, nil
		}
		items := make([]list.Item, len(msg.Tasks))
		for i, task := range msg.Tasks {
			items[i] = taskItem{task: task}
		}
		m.list.Title = "Quests · " + msg.Day
		cmds = append(cmds, m.list.SetItems(items))
		m.story.SetContent(m.renderStory())
		return m, tea.Batch(cmds...)
	}

	prevIdx := m.list.Index()
	var lCmd tea.Cmd
	m.list, lCmd = m.list.Update(msg)
	cmds = append(cmds, lCmd)
	if m.list.Index() != prevIdx {
		m.story.SetContent(m.renderStory())
		m.story.GotoTop()
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.err != nil {
		return theme.Error.Render("Could not load quests: " + m.err.Error())
	}
	listH := m.height / 2
	listPane := lipgloss.NewStyle().Width(m.width).Height(listH).Render(m.list.View())
	if len(m.list.Items()) == 0 {
		listPane = lipgloss.NewStyle().Width(m.width).Height(listH).Render(
			theme.Title.Render(m.list.Title) + "\n\n" + theme.Muted.Render("No quests for this day. Press a to add one."))
	}
	storyPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Width(m.width - 2).
		Height(m.height - listH - 2).
		Render(m.story.View())
	return lipgloss.JoinVertical(lipgloss.Left, listPane, storyPane)
}

// SelectedTask returns the highlighted quest, if any.
func (m Model) SelectedTask() (questdto.TaskOutput, bool) {
	if item, ok := m.list.SelectedItem().(taskItem); ok {
		return item.task, true
	}
	return questdto.TaskOutput{}, false
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listH := m.height / 2
	m.list.SetSize(m.width, listH)
	m.story.Width = m.width - 4
	m.story.Height = m.height - listH - 2
	m.story.SetContent(m.renderStory())
}

func (m Model) renderStory() string {
	task, ok := m.SelectedTask()
	if !ok {
		return theme.Muted.Render("Select a quest to read its tale")
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(task.Description) + "\n")
	status := theme.Hot.Render(fmt.Sprintf("%d pts", task.Points))
	if task.Completed {
		status = theme.Done.Render(fmt.Sprintf("%d pts", task.Points)) + theme.Muted.Render("  completed")
	}
	sb.WriteString(status + theme.Muted.Render("  due "+task.DueDate.Local().Format("Mon Jan 2 15:04")) + "\n\n")
	width := m.story.Width
	if width < 10 {
		width = 60
	}
	sb.WriteString(lipgloss.NewStyle().Width(width).Render(task.Story))
	if !task.Completed {
		sb.WriteString("\n\n" + theme.Muted.Render("enter: complete quest"))
	}
	return sb.String()
}
