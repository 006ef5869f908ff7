package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	narrativedomain "taskquest/internal/modules/narrative/domain"
	narrativeservice "taskquest/internal/modules/narrative/service"
	narrativeusecase "taskquest/internal/modules/narrative/usecase"
	questout "taskquest/internal/modules/quest/adapter/out"
	questservice "taskquest/internal/modules/quest/service"
	questusecase "taskquest/internal/modules/quest/usecase"
	scoreout "taskquest/internal/modules/score/adapter/out"
	scoreservice "taskquest/internal/modules/score/service"
	scoreusecase "taskquest/internal/modules/score/usecase"
	sessiondto "taskquest/internal/modules/session/dto"
	sessionin "taskquest/internal/modules/session/port/in"
	"taskquest/internal/modules/session/service"
	"taskquest/internal/modules/session/usecase"
	"taskquest/internal/platform/calendar"
	apperrors "taskquest/internal/platform/errors"
	"taskquest/internal/platform/kv"
)

var tokyo = time.FixedZone("JST", 9*60*60)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

type fakeID struct{ n int }

func (f *fakeID) New() string {
	f.n++
	return []string{"quest-a", "quest-b", "quest-c", "quest-d"}[f.n-1]
}

// scriptedNarrator replays persona and story payloads. When gate is set,
// CreateTaskNarrative blocks until it is closed.
type scriptedNarrator struct {
	mu        sync.Mutex
	persona   narrativedomain.PersonaPayload
	personErr error
	stories   []narrativedomain.NarrativePayload
	storyErr  error
	gate      chan struct{}
	entered   chan struct{}
	calls     int
}

func (s *scriptedNarrator) Name() string { return "scripted" }

func (s *scriptedNarrator) CreatePersona(context.Context) (narrativedomain.PersonaPayload, error) {
	return s.persona, s.personErr
}

func (s *scriptedNarrator) CreateTaskNarrative(context.Context, narrativedomain.NarrativeRequest) (narrativedomain.NarrativePayload, error) {
	s.mu.Lock()
	s.calls++
	gate, entered := s.gate, s.entered
	var next narrativedomain.NarrativePayload
	if len(s.stories) > 0 {
		next, s.stories = s.stories[0], s.stories[1:]
	}
	s.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	return next, s.storyErr
}

func story(text string, points int) narrativedomain.NarrativePayload {
	return narrativedomain.NarrativePayload{Story: text, Points: json.Number(strconv.Itoa(points))}
}

type harness struct {
	session sessionin.Usecase
	clock   *fakeClock
	records kv.Store
}

// readOnlyLeaderboard rejects leaderboard writes and passes everything else through.
type readOnlyLeaderboard struct{ kv.Store }

func (r readOnlyLeaderboard) Put(ctx context.Context, key string, value []byte) error {
	if key == kv.KeyLeaderboard {
		return errors.New("disk full")
	}
	return r.Store.Put(ctx, key, value)
}

func newHarness(t *testing.T, narrator *scriptedNarrator) harness {
	t.Helper()
	return newHarnessWith(t, narrator, nil)
}

// newHarnessWith lets a test wrap the record store seen by the leaderboard.
func newHarnessWith(t *testing.T, narrator *scriptedNarrator, wrapScores func(kv.Store) kv.Store) harness {
	t.Helper()
	records, err := kv.NewFileStore(t.TempDir())
	require.NoError(t, err)
	scoreRecords := kv.Store(records)
	if wrapScores != nil {
		scoreRecords = wrapScores(records)
	}
	clk := &fakeClock{now: time.Date(2026, 3, 1, 8, 0, 0, 0, tokyo)}
	cal := calendar.New(clk)
	quests := questusecase.NewInteractor(questservice.NewQuestService(cal, &fakeID{}, questout.NewKVTaskStore(records), nil), cal)
	scores := scoreusecase.NewInteractor(scoreservice.NewScoreService(cal, scoreout.NewKVLeaderboardStore(scoreRecords), nil), cal)
	narrative := narrativeusecase.NewInteractor(narrativeservice.NewNarrativeService(narrator, nil))
	session := usecase.NewInteractor(service.NewSessionService(nil), quests, scores, narrative, cal, nil)
	return harness{session: session, clock: clk, records: records}
}

func quirkNarrator() *scriptedNarrator {
	return &scriptedNarrator{persona: narrativedomain.PersonaPayload{Name: "Captain Quirk", Description: "A friendly space pirate."}}
}

func TestCaptainQuirkScenario(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	narrator := quirkNarrator()
	narrator.stories = []narrativedomain.NarrativePayload{story("Suds ahoy!", 15), story("Bilge duty!", 40)}
	h := newHarness(t, narrator)

	started, err := h.session.Start(ctx, sessiondto.StartInput{Summon: true})
	require.NoError(t, err)
	assert.True(t, started.PersonaReady)
	persona, ok := h.session.Persona()
	require.True(t, ok)
	assert.Equal(t, "Captain Quirk", persona.Name)

	laundry, err := h.session.AddTask(ctx, sessiondto.AddTaskInput{Description: "do laundry", Time: "09:00"})
	require.NoError(t, err)
	assert.Equal(t, 15, laundry.Points)
	assert.False(t, laundry.Completed)
	assert.Equal(t, time.Date(2026, 3, 1, 9, 0, 0, 0, tokyo).Unix(), laundry.DueDate.Unix())
	points, err := h.session.CurrentPoints(ctx)
	require.NoError(t, err)
	assert.Zero(t, points)

	done, err := h.session.CompleteTask(ctx, laundry.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, done.Earned)
	assert.Equal(t, 15, done.TodayTotal)

	deck, err := h.session.AddTask(ctx, sessiondto.AddTaskInput{Description: "scrub the deck", Time: "10:30"})
	require.NoError(t, err)
	_, err = h.session.CompleteTask(ctx, deck.ID)
	require.NoError(t, err)

	board, err := h.session.LeaderboardRecent(ctx, 7)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, calendar.DateKey("2026-03-01"), board[0].Date)
	assert.Equal(t, 55, board[0].Points)
	best, err := h.session.HighScore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 55, best)

	again, err := h.session.CompleteTask(ctx, laundry.ID)
	require.NoError(t, err)
	assert.Zero(t, again.Earned)
	assert.Equal(t, 55, again.TodayTotal)
}

func TestOutOfRangePointsAreClampedInStoredTask(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	narrator := quirkNarrator()
	narrator.stories = []narrativedomain.NarrativePayload{story("An epic exam!", 150)}
	h := newHarness(t, narrator)
	_, err := h.session.Start(ctx, sessiondto.StartInput{Summon: true})
	require.NoError(t, err)

	task, err := h.session.AddTask(ctx, sessiondto.AddTaskInput{Description: "study for an exam", Day: "2026-03-02", Time: "14:00"})
	require.NoError(t, err)
	assert.Equal(t, 100, task.Points)

	stored, err := h.session.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, stored.Points)
	tomorrow, err := h.session.TasksForDay(ctx, "2026-03-02")
	require.NoError(t, err)
	require.Len(t, tomorrow, 1)
}

func TestSummonFailureLeavesSessionUsable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	narrator := quirkNarrator()
	narrator.personErr = errors.New("401 unauthorized")
	h := newHarness(t, narrator)

	started, err := h.session.Start(ctx, sessiondto.StartInput{Summon: true})
	require.NoError(t, err)
	assert.False(t, started.PersonaReady)
	status := h.session.Status()
	assert.False(t, status.Loading)
	assert.Equal(t, "Failed to summon a quest giver. Please check your API key and try again.", status.Error)

	_, err = h.session.AddTask(ctx, sessiondto.AddTaskInput{Description: "do laundry", Time: "09:00"})
	assert.True(t, errors.Is(err, apperrors.ErrNoPersona))
	assert.Equal(t, "Your quest giver hasn't arrived yet! Please wait.", h.session.Status().Error)
	assert.Zero(t, narrator.calls)

	tasks, err := h.session.TasksForDay(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, tasks)

	narrator.personErr = nil
	persona, err := h.session.Summon(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Captain Quirk", persona.Name)
	assert.Empty(t, h.session.Status().Error)
}

func TestAddTaskValidatesBeforeNarratorCall(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	narrator := quirkNarrator()
	h := newHarness(t, narrator)
	_, err := h.session.Start(ctx, sessiondto.StartInput{Summon: true})
	require.NoError(t, err)

	for _, input := range []sessiondto.AddTaskInput{
		{Description: "   ", Time: "09:00"},
		{Description: "do laundry"},
		{Description: "do laundry", Time: "25:99"},
		{Description: "do laundry", Day: "tomorrow", Time: "09:00"},
	} {
		_, err := h.session.AddTask(ctx, input)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidInput), "%+v: %v", input, err)
	}
	assert.Zero(t, narrator.calls)
}

func TestLeaderboardWriteFailureKeepsTaskCompleted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	narrator := quirkNarrator()
	narrator.stories = []narrativedomain.NarrativePayload{story("Suds ahoy!", 15)}
	h := newHarnessWith(t, narrator, func(s kv.Store) kv.Store { return readOnlyLeaderboard{s} })

	_, err := h.session.Start(ctx, sessiondto.StartInput{Summon: true})
	require.NoError(t, err)
	laundry, err := h.session.AddTask(ctx, sessiondto.AddTaskInput{Description: "do laundry", Time: "09:00"})
	require.NoError(t, err)

	_, err = h.session.CompleteTask(ctx, laundry.ID)
	require.Error(t, err)
	assert.Equal(t, "Quest complete, but the leaderboard could not be updated. Those points were lost.", h.session.Status().Error)

	stored, err := h.session.GetTask(ctx, laundry.ID)
	require.NoError(t, err)
	assert.True(t, stored.Completed)
	points, err := h.session.CurrentPoints(ctx)
	require.NoError(t, err)
	assert.Zero(t, points)

	again, err := h.session.CompleteTask(ctx, laundry.ID)
	require.NoError(t, err)
	assert.Zero(t, again.Earned)
}

func TestNarratorFailureCreatesNoTask(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	narrator := quirkNarrator()
	narrator.storyErr = errors.New("503 service unavailable")
	h := newHarness(t, narrator)
	_, err := h.session.Start(ctx, sessiondto.StartInput{Summon: true})
	require.NoError(t, err)

	_, err = h.session.AddTask(ctx, sessiondto.AddTaskInput{Description: "do laundry", Time: "09:00"})
	assert.True(t, errors.Is(err, apperrors.ErrService))
	status := h.session.Status()
	assert.False(t, status.Loading)
	assert.Equal(t, "The quest scroll caught fire! Failed to create a new quest. Please try again.", status.Error)

	tasks, err := h.session.TasksForDay(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, tasks)
	_, err = h.records.Get(ctx, kv.KeyTasks)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestSecondSubmissionWhileInFlightIsRejected(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	narrator := quirkNarrator()
	narrator.stories = []narrativedomain.NarrativePayload{story("Onward!", 20)}
	h := newHarness(t, narrator)
	_, err := h.session.Start(ctx, sessiondto.StartInput{Summon: true})
	require.NoError(t, err)

	narrator.mu.Lock()
	narrator.gate = make(chan struct{})
	narrator.entered = make(chan struct{}, 1)
	narrator.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		_, err := h.session.AddTask(ctx, sessiondto.AddTaskInput{Description: "first", Time: "09:00"})
		done <- err
	}()
	<-narrator.entered
	assert.True(t, h.session.Status().Loading)

	_, err = h.session.AddTask(ctx, sessiondto.AddTaskInput{Description: "second", Time: "10:00"})
	assert.True(t, errors.Is(err, apperrors.ErrBusy))

	close(narrator.gate)
	require.NoError(t, <-done)
	assert.False(t, h.session.Status().Loading)
	tasks, err := h.session.TasksForDay(ctx, "")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "first", tasks[0].Description)
}

func TestSubscribersSeeChanges(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	narrator := quirkNarrator()
	narrator.stories = []narrativedomain.NarrativePayload{story("Onward!", 20)}
	h := newHarness(t, narrator)

	var mu sync.Mutex
	var kinds []string
	unsubscribe := h.session.Subscribe(func(ev sessiondto.Event) {
		mu.Lock()
		kinds = append(kinds, ev.Kind)
		mu.Unlock()
	})
	_, err := h.session.Start(ctx, sessiondto.StartInput{Summon: true})
	require.NoError(t, err)
	task, err := h.session.AddTask(ctx, sessiondto.AddTaskInput{Description: "patrol", Time: "09:00"})
	require.NoError(t, err)
	_, err = h.session.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	unsubscribe()
	_, err = h.session.Summon(ctx)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, kinds, "persona")
	assert.Contains(t, kinds, "tasks")
	assert.Contains(t, kinds, "points")
	assert.Equal(t, "points", kinds[len(kinds)-1])
}

func TestCalendarMarksTaskDays(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	narrator := quirkNarrator()
	narrator.stories = []narrativedomain.NarrativePayload{story("a", 10), story("b", 10), story("c", 10)}
	h := newHarness(t, narrator)
	_, err := h.session.Start(ctx, sessiondto.StartInput{Summon: true})
	require.NoError(t, err)
	for _, in := range []sessiondto.AddTaskInput{
		{Description: "a", Day: "2026-03-01", Time: "09:00"},
		{Description: "b", Day: "2026-03-01", Time: "23:59"},
		{Description: "c", Day: "2026-03-31", Time: "00:00"},
	} {
		_, err := h.session.AddTask(ctx, in)
		require.NoError(t, err)
	}

	month, err := h.session.Calendar(ctx, time.Date(2026, 3, 15, 0, 0, 0, 0, tokyo))
	require.NoError(t, err)
	assert.Equal(t, "March 2026", month.Title)
	require.Len(t, month.Weeks, 5)
	first := month.Weeks[0][0]
	assert.Equal(t, calendar.DateKey("2026-03-01"), first.Key)
	assert.Equal(t, 2, first.TaskCount)
	assert.True(t, first.IsToday)
	last := month.Weeks[4][2]
	assert.Equal(t, 31, last.Day)
	assert.Equal(t, 1, last.TaskCount)
	assert.Empty(t, month.Weeks[4][3].Key)
}
