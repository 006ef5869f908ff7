package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	narrativedto "taskquest/internal/modules/narrative/dto"
	questdto "taskquest/internal/modules/quest/dto"
	scoredto "taskquest/internal/modules/score/dto"
	sessiondto "taskquest/internal/modules/session/dto"
	apperrors "taskquest/internal/platform/errors"
	"taskquest/internal/ui/components"
	"taskquest/internal/ui/theme"
	calendarview "taskquest/internal/ui/views/calendar"
	leaderboardview "taskquest/internal/ui/views/leaderboard"
	questsview "taskquest/internal/ui/views/quests"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type sessionPort interface {
	Start(ctx context.Context, summon bool) (sessiondto.StartOutput, error)
	Summon(ctx context.Context) (narrativedto.PersonaOutput, error)
	AddTask(ctx context.Context, description, day, hhmm string) (questdto.TaskOutput, error)
	CompleteTask(ctx context.Context, taskID string) (sessiondto.CompleteOutput, error)
	TasksForDay(ctx context.Context, day string) ([]questdto.TaskOutput, error)
	CurrentPoints(ctx context.Context) (int, error)
	HighScore(ctx context.Context) (int, error)
	LeaderboardRecent(ctx context.Context, n int) ([]scoredto.EntryOutput, error)
	Calendar(ctx context.Context, month time.Time) (sessiondto.MonthOutput, error)
	Persona() (narrativedto.PersonaOutput, bool)
	Status() sessiondto.StatusOutput
	Today() string
}

// ─── pane focus ──────────────────────────────────────────────────────────────

type paneID int

const (
	paneCalendar paneID = iota
	paneQuests
	paneCount
)

// ─── async messages ──────────────────────────────────────────────────────────

// ChangedMsg is sent from session change notifications.
type ChangedMsg struct{ Kind string }

type startedMsg struct {
	out sessiondto.StartOutput
	err error
}

type scoreLoadedMsg struct {
	points int
	best   int
	rows   []scoredto.EntryOutput
	err    error
}

type actionDoneMsg struct {
	status string
	err    error
}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Focus    key.Binding
	Add      key.Binding
	Complete key.Binding
	Summon   key.Binding
	Today    key.Binding
	Move     key.Binding
	Month    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Focus:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "calendar/quests")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add quest")),
		Complete: key.NewBinding(key.WithKeys("enter", "x"), key.WithHelp("enter", "complete quest")),
		Summon:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "summon quest giver")),
		Today:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "jump to today")),
		Move:     key.NewBinding(key.WithKeys("left", "right", "up", "down"), key.WithHelp("←↑↓→", "pick day")),
		Month:    key.NewBinding(key.WithKeys("[", "]"), key.WithHelp("[ ]", "month")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Complete, k.Focus, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Add, k.Complete, k.Summon},
		{k.Focus, k.Move, k.Month, k.Today},
		{k.Help, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model: header, quest giver card, calendar,
// leaderboard and the selected day's quests. Business logic lives behind
// sessionPort; the model only reacts to results and change notifications.
type Model struct {
	session    sessionPort
	recentDays int

	calView   calendarview.Model
	questView questsview.Model
	board     leaderboardview.Model

	form     components.QuestForm
	spinner  spinner.Model
	keys     keyMap
	help     help.Model
	showHelp bool
	focus    paneID

	points  int
	best    int
	persona narrativedto.PersonaOutput
	hasHero bool
	status  sessiondto.StatusOutput
	notice  string
	width   int
	height  int
}

// NewModel builds the board. recentDays is how many leaderboard days to show.
func NewModel(session sessionPort, recentDays int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		session:    session,
		recentDays: recentDays,
		calView:    calendarview.New(session, session.Today()),
		questView:  questsview.New(session),
		board:      leaderboardview.New(),
		form:       components.NewQuestForm(),
		spinner:    sp,
		keys:       defaultKeys(),
		help:       help.New(),
		focus:      paneCalendar,
		status:     sessiondto.StatusOutput{Loading: true},
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.startCmd(), m.spinner.Tick)
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The form intercepts all input while open.
	if m.form.Visible() {
		if _, ok := msg.(tea.KeyMsg); ok {
			var cmd tea.Cmd
			m.form, cmd = m.form.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = m.width
		m.form.SetWidth(min(m.width-4, 72))
		m.propagateSize()

	case startedMsg:
		if msg.err != nil {
			m.notice = "start: " + msg.err.Error()
		}
		m.syncSession()
		cmds = append(cmds, m.calView.Reload(), m.questView.Load(m.calView.SelectedDay()), m.scoreCmd())

	case ChangedMsg:
		switch msg.Kind {
		case "tasks":
			cmds = append(cmds, m.calView.Reload(), m.questView.Load(m.calView.SelectedDay()))
		case "points":
			cmds = append(cmds, m.scoreCmd())
		default:
			m.syncSession()
		}

	case scoreLoadedMsg:
		if msg.err != nil {
			m.notice = "leaderboard: " + msg.err.Error()
			break
		}
		m.points = msg.points
		m.best = msg.best
		m.board.SetRows(msg.rows, msg.best)

	case actionDoneMsg:
		m.syncSession()
		if msg.err != nil {
			m.notice = actionError(msg.err)
		} else {
			m.notice = msg.status
		}

	case calendarview.LoadedMsg:
		m.calView, _ = m.calView.Update(msg)

	case calendarview.SelectedMsg:
		cmds = append(cmds, m.questView.Load(msg.Day))

	case questsview.LoadedMsg:
		var cmd tea.Cmd
		m.questView, cmd = m.questView.Update(msg)
		cmds = append(cmds, cmd)

	case components.QuestFormSubmitMsg:
		m.notice = ""
		cmds = append(cmds, m.addTaskCmd(msg.Description, m.calView.SelectedDay(), msg.Time))

	case components.QuestFormCancelMsg:
		m.notice = ""

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.focus == paneQuests && m.questView.Filtering() {
			var cmd tea.Cmd
			m.questView, cmd = m.questView.Update(msg)
			return m, cmd
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil
		case key.Matches(msg, m.keys.Focus):
			m.focus = (m.focus + 1) % paneCount
			return m, nil
		case key.Matches(msg, m.keys.Add):
			if !m.hasHero {
				m.notice = "Your quest giver hasn't arrived yet! Press r to summon one."
				return m, nil
			}
			cmd := m.form.Open(m.calView.SelectedDay())
			return m, cmd
		case key.Matches(msg, m.keys.Summon):
			if m.status.Loading {
				return m, nil
			}
			m.notice = ""
			return m, m.summonCmd()
		case key.Matches(msg, m.keys.Today):
			var cmd tea.Cmd
			m.calView, cmd = m.calView.Jump(m.session.Today())
			return m, cmd
		case m.focus == paneQuests && key.Matches(msg, m.keys.Complete):
			if task, ok := m.questView.SelectedTask(); ok && !task.Completed {
				return m, m.completeCmd(task)
			}
			return m, nil
		}

		var cmd tea.Cmd
		switch m.focus {
		case paneCalendar:
			m.calView, cmd = m.calView.Update(msg)
		case paneQuests:
			m.questView, cmd = m.questView.Update(msg)
		}
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	header := m.renderHeader()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.form.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.form.View())
	default:
		leftW := m.leftWidth()
		m.calView.SetFocused(m.focus == paneCalendar)
		left := lipgloss.JoinVertical(lipgloss.Left, m.renderPersona(leftW), m.calView.View(), m.board.View())
		questStyle := theme.Pane
		if m.focus == paneQuests {
			questStyle = theme.PaneActive
		}
		right := questStyle.Width(m.width - leftW - 4).Height(contentH - 2).Render(m.questView.View())
		content = lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Width(leftW).Render(left), right)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

func (m Model) renderHeader() string {
	title := theme.Hot.Render("⚔ Task Quest")
	score := theme.Gold.Render(fmt.Sprintf("Today %d pts", m.points)) + theme.Muted.Render(fmt.Sprintf("   High score %d", m.best))
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(score) - 2
	if gap < 1 {
		gap = 1
	}
	bar := " " + title + strings.Repeat(" ", gap) + score + " "
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

func (m Model) renderPersona(width int) string {
	var body string
	switch {
	case m.hasHero:
		body = theme.Persona.Render(m.persona.Name) + "\n" + lipgloss.NewStyle().Width(max(width-4, 10)).Render(m.persona.Description)
	case m.status.Loading:
		body = m.spinner.View() + " Summoning your quest giver…"
	default:
		body = theme.Muted.Render("No quest giver yet. Press r to summon one.")
	}
	return theme.Pane.Width(max(width-2, 10)).Render(body)
}

func (m Model) renderStatusBar() string {
	left := theme.Muted.Render("ready")
	switch {
	case m.status.Loading:
		left = m.spinner.View() + " The quest giver is writing…"
	case m.status.Error != "":
		left = theme.Error.Render(m.status.Error)
	case m.notice != "":
		left = m.notice
	}
	right := theme.Muted.Render("a:add  enter:complete  tab:focus  ?:help  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) syncSession() {
	m.status = m.session.Status()
	m.persona, m.hasHero = m.session.Persona()
}

func (m Model) leftWidth() int {
	w := m.width * 4 / 10
	if w < 30 {
		w = 30
	}
	return w
}

func (m *Model) propagateSize() {
	leftW := m.leftWidth()
	m.calView.SetWidth(leftW)
	m.board.SetWidth(leftW)
	m.questView, _ = m.questView.Update(tea.WindowSizeMsg{Width: m.width - leftW - 8, Height: m.height - 6})
}

func actionError(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrBusy):
		return "A quest is already being written. Please wait."
	case errors.Is(err, apperrors.ErrInvalidInput):
		return err.Error()
	case errors.Is(err, apperrors.ErrService), errors.Is(err, apperrors.ErrNoPersona):
		// The session status already carries the player-facing message.
		return ""
	}
	return err.Error()
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) startCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.Start(context.Background(), true)
		return startedMsg{out: out, err: err}
	}
}

func (m Model) summonCmd() tea.Cmd {
	return func() tea.Msg {
		persona, err := m.session.Summon(context.Background())
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: persona.Name + " has arrived!"}
	}
}

func (m Model) addTaskCmd(description, day, hhmm string) tea.Cmd {
	return func() tea.Msg {
		task, err := m.session.AddTask(context.Background(), description, day, hhmm)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: fmt.Sprintf("New quest: %s (%d pts)", task.Description, task.Points)}
	}
}

func (m Model) completeCmd(task questdto.TaskOutput) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.CompleteTask(context.Background(), task.ID)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		if out.Earned == 0 {
			return actionDoneMsg{status: "Quest already completed."}
		}
		return actionDoneMsg{status: fmt.Sprintf("Quest complete! +%d pts (today %d)", out.Earned, out.TodayTotal)}
	}
}

func (m Model) scoreCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		points, err := m.session.CurrentPoints(ctx)
		if err != nil {
			return scoreLoadedMsg{err: err}
		}
		best, err := m.session.HighScore(ctx)
		if err != nil {
			return scoreLoadedMsg{err: err}
		}
		rows, err := m.session.LeaderboardRecent(ctx, m.recentDays)
		return scoreLoadedMsg{points: points, best: best, rows: rows, err: err}
	}
}
