package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskquest/internal/ui/theme"
)

// QuestFormSubmitMsg is emitted when the user confirms a new quest.
type QuestFormSubmitMsg struct {
	Description string
	Time        string
}

// QuestFormCancelMsg is emitted when the user presses esc.
type QuestFormCancelMsg struct{}

var (
	formStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	hintStyle = lipgloss.NewStyle().Foreground(theme.Subtext0)
)

const (
	fieldDescription = iota
	fieldTime
)

// QuestForm is a two-field overlay asking for a quest and its due time.
type QuestForm struct {
	inputs  [2]textinput.Model
	focus   int
	visible bool
	day     string
	problem string
	width   int
}

func NewQuestForm() QuestForm {
	desc := textinput.New()
	desc.Placeholder = "e.g., Do the laundry"
	desc.CharLimit = 200
	desc.Prompt = "quest › "

	at := textinput.New()
	at.Placeholder = "09:00"
	at.CharLimit = 5
	at.Prompt = "time  › "

	return QuestForm{inputs: [2]textinput.Model{desc, at}}
}

func (f QuestForm) Visible() bool { return f.visible }

// Open shows the form for day with both fields cleared.
func (f *QuestForm) Open(day string) tea.Cmd {
	f.visible = true
	f.day = day
	f.problem = ""
	f.focus = fieldDescription
	f.inputs[fieldDescription].SetValue("")
	f.inputs[fieldTime].SetValue("09:00")
	f.inputs[fieldTime].Blur()
	return f.inputs[fieldDescription].Focus()
}

func (f *QuestForm) SetWidth(w int) { f.width = w }

func (f QuestForm) Update(msg tea.Msg) (QuestForm, tea.Cmd) {
	if !f.visible {
		return f, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			f.close()
			return f, func() tea.Msg { return QuestFormCancelMsg{} }
		case "tab", "shift+tab", "up", "down":
			cmd := f.toggleFocus()
			return f, cmd
		case "enter":
			desc := strings.TrimSpace(f.inputs[fieldDescription].Value())
			at := strings.TrimSpace(f.inputs[fieldTime].Value())
			if desc == "" || at == "" {
				f.problem = "Both a quest and a time are required."
				return f, nil
			}
			f.close()
			return f, func() tea.Msg { return QuestFormSubmitMsg{Description: desc, Time: at} }
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f QuestForm) View() string {
	if !f.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("New quest for "+f.day) + "\n\n")
	sb.WriteString(f.inputs[fieldDescription].View() + "\n")
	sb.WriteString(f.inputs[fieldTime].View() + "\n")
	if f.problem != "" {
		sb.WriteString("\n" + theme.Error.Render(f.problem) + "\n")
	}
	sb.WriteString("\n" + hintStyle.Render("tab: switch field  enter: create  esc: cancel"))

	w := f.width
	if w < 20 {
		w = 64
	}
	return formStyle.Width(w - 2).Render(sb.String())
}

func (f *QuestForm) toggleFocus() tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = 1 - f.focus
	return f.inputs[f.focus].Focus()
}

func (f *QuestForm) close() {
	f.visible = false
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}
