package app

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	narrativedto "taskquest/internal/modules/narrative/dto"
	questdto "taskquest/internal/modules/quest/dto"
	scoredto "taskquest/internal/modules/score/dto"
	sessiondto "taskquest/internal/modules/session/dto"
	apperrors "taskquest/internal/platform/errors"
	"taskquest/internal/ui/components"
)

type fakeSession struct {
	persona    narrativedto.PersonaOutput
	hasPersona bool
	status     sessiondto.StatusOutput
	added      []string
	recentN    int
}

func (f *fakeSession) Start(context.Context, bool) (sessiondto.StartOutput, error) {
	return sessiondto.StartOutput{Today: "2026-03-01", PersonaReady: f.hasPersona}, nil
}

func (f *fakeSession) Summon(context.Context) (narrativedto.PersonaOutput, error) {
	f.persona = narrativedto.PersonaOutput{Name: "Captain Quirk", Description: "Finds every chore thrilling."}
	f.hasPersona = true
	return f.persona, nil
}

func (f *fakeSession) AddTask(_ context.Context, description, day, hhmm string) (questdto.TaskOutput, error) {
	f.added = append(f.added, day+" "+hhmm+" "+description)
	return questdto.TaskOutput{ID: "t1", Description: description, Points: 15}, nil
}

func (f *fakeSession) CompleteTask(_ context.Context, taskID string) (sessiondto.CompleteOutput, error) {
	return sessiondto.CompleteOutput{TaskID: taskID, Earned: 15, TodayTotal: 15}, nil
}

func (f *fakeSession) TasksForDay(context.Context, string) ([]questdto.TaskOutput, error) {
	return nil, nil
}

func (f *fakeSession) CurrentPoints(context.Context) (int, error) { return 55, nil }

func (f *fakeSession) HighScore(context.Context) (int, error) { return 80, nil }

func (f *fakeSession) LeaderboardRecent(_ context.Context, n int) ([]scoredto.EntryOutput, error) {
	f.recentN = n
	return []scoredto.EntryOutput{{Date: "2026-03-01", Label: "Today", Points: 55, IsToday: true}}, nil
}

func (f *fakeSession) Calendar(_ context.Context, month time.Time) (sessiondto.MonthOutput, error) {
	return sessiondto.MonthOutput{Month: month, Title: month.Format("January 2006")}, nil
}

func (f *fakeSession) Persona() (narrativedto.PersonaOutput, bool) { return f.persona, f.hasPersona }

func (f *fakeSession) Status() sessiondto.StatusOutput { return f.status }

func (f *fakeSession) Today() string { return "2026-03-01" }

func sized(t *testing.T, session *fakeSession) Model {
	t.Helper()
	next, _ := NewModel(session, 5).Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestAddWithoutPersonaShowsNotice(t *testing.T) {
	t.Parallel()
	m := sized(t, &fakeSession{})
	next, _ := m.Update(startedMsg{})
	m = next.(Model)

	next, cmd := m.Update(runeKey('a'))
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.False(t, m.form.Visible())
	assert.Contains(t, m.View(), "Press r to summon")
}

func TestSummonThenAddUsesSelectedDay(t *testing.T) {
	t.Parallel()
	session := &fakeSession{}
	m := sized(t, session)
	next, cmd := m.Update(runeKey('r'))
	m = next.(Model)
	assert.Nil(t, cmd, "summon is ignored while the session is starting")

	next, _ = m.Update(startedMsg{})
	m = next.(Model)
	next, cmd = m.Update(runeKey('r'))
	m = next.(Model)
	require.NotNil(t, cmd)
	next, _ = m.Update(cmd())
	m = next.(Model)
	assert.True(t, m.hasHero)
	assert.Contains(t, m.View(), "Captain Quirk")

	next, _ = m.Update(runeKey('a'))
	m = next.(Model)
	require.True(t, m.form.Visible())

	next, cmd = m.Update(components.QuestFormSubmitMsg{Description: "Take out the trash", Time: "09:00"})
	m = next.(Model)
	require.NotNil(t, cmd)
	next, _ = m.Update(cmd())
	m = next.(Model)
	assert.Equal(t, []string{"2026-03-01 09:00 Take out the trash"}, session.added)
	assert.Equal(t, "New quest: Take out the trash (15 pts)", m.notice)
}

func TestScoreLoadFillsHeader(t *testing.T) {
	t.Parallel()
	session := &fakeSession{}
	m := sized(t, session)

	next, _ := m.Update(m.scoreCmd()())
	m = next.(Model)
	assert.Equal(t, 5, session.recentN)
	view := m.View()
	assert.Contains(t, view, "Today 55 pts")
	assert.Contains(t, view, "High score 80")
}

func TestStatusErrorWinsOverNotice(t *testing.T) {
	t.Parallel()
	session := &fakeSession{status: sessiondto.StatusOutput{Error: "Failed to summon a quest giver. Please check your API key and try again."}}
	m := sized(t, session)

	next, _ := m.Update(actionDoneMsg{err: fmt.Errorf("%w: boom", apperrors.ErrService)})
	m = next.(Model)
	assert.Empty(t, m.notice)
	bar := m.renderStatusBar()
	assert.True(t, strings.Contains(bar, "Failed to summon"), bar)
}

func TestActionError(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "A quest is already being written. Please wait.", actionError(apperrors.ErrBusy))
	assert.Empty(t, actionError(apperrors.ErrNoPersona))
	assert.Equal(t, "invalid input: time must be HH:MM", actionError(fmt.Errorf("%w: time must be HH:MM", apperrors.ErrInvalidInput)))
}
