package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	narrativedto "taskquest/internal/modules/narrative/dto"
	narrativein "taskquest/internal/modules/narrative/port/in"
	questdto "taskquest/internal/modules/quest/dto"
	questin "taskquest/internal/modules/quest/port/in"
	scoredto "taskquest/internal/modules/score/dto"
	scorein "taskquest/internal/modules/score/port/in"
	"taskquest/internal/modules/session/domain"
	sessiondto "taskquest/internal/modules/session/dto"
	sessionin "taskquest/internal/modules/session/port/in"
	"taskquest/internal/modules/session/service"
	"taskquest/internal/platform/calendar"
	apperrors "taskquest/internal/platform/errors"
)

type Interactor struct {
	svc      *service.SessionService
	quests   questin.Usecase
	scores   scorein.Usecase
	narrator narrativein.Usecase
	cal      *calendar.Calendar
	log      *zap.Logger
}

func NewInteractor(svc *service.SessionService, quests questin.Usecase, scores scorein.Usecase, narrator narrativein.Usecase, cal *calendar.Calendar, log *zap.Logger) sessionin.Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Interactor{svc: svc, quests: quests, scores: scores, narrator: narrator, cal: cal, log: log.Named("session")}
}

// Start loads both stores and, when asked, summons the quest giver. A failed
// summon leaves the session usable without a persona.
func (i *Interactor) Start(ctx context.Context, input sessiondto.StartInput) (sessiondto.StartOutput, error) {
	if err := i.quests.Load(ctx); err != nil {
		return sessiondto.StartOutput{}, fmt.Errorf("load tasks: %w", err)
	}
	if err := i.scores.Load(ctx); err != nil {
		return sessiondto.StartOutput{}, fmt.Errorf("load leaderboard: %w", err)
	}
	i.svc.Notify(domain.EventTasks)
	i.svc.Notify(domain.EventPoints)

	if input.Summon {
		if _, err := i.Summon(ctx); err != nil && !errors.Is(err, apperrors.ErrService) {
			return sessiondto.StartOutput{}, err
		}
	}
	points, _ := i.scores.CurrentTotal(ctx)
	best, _ := i.scores.HighScore(ctx)
	_, ready := i.svc.Persona()
	return sessiondto.StartOutput{Today: i.cal.TodayKey(), PersonaReady: ready, Points: points, HighScore: best}, nil
}

func (i *Interactor) Summon(ctx context.Context) (narrativedto.PersonaOutput, error) {
	if err := i.svc.Begin(); err != nil {
		return narrativedto.PersonaOutput{}, err
	}
	persona, err := i.narrator.GeneratePersona(ctx)
	if err != nil {
		i.svc.Finish(domain.MsgSummonFailed)
		return narrativedto.PersonaOutput{}, err
	}
	i.svc.SetPersona(persona)
	i.svc.Finish("")
	return persona, nil
}

// AddTask validates input before any narrator call, then asks the quest giver
// for a story and stores the task only if that succeeds.
func (i *Interactor) AddTask(ctx context.Context, input sessiondto.AddTaskInput) (questdto.TaskOutput, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return questdto.TaskOutput{}, fmt.Errorf("%w: quest description is required", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(input.Time) == "" {
		return questdto.TaskOutput{}, fmt.Errorf("%w: quest time is required", apperrors.ErrInvalidInput)
	}
	day := input.Day
	if day == "" {
		day = i.cal.TodayKey()
	}
	due, err := i.cal.At(day, input.Time)
	if err != nil {
		return questdto.TaskOutput{}, err
	}
	persona, ok := i.svc.Persona()
	if !ok {
		i.svc.Fail(domain.MsgNoPersona)
		return questdto.TaskOutput{}, apperrors.ErrNoPersona
	}
	if err := i.svc.Begin(); err != nil {
		return questdto.TaskOutput{}, err
	}

	narrative, err := i.narrator.GenerateTaskNarrative(ctx, narrativedto.NarrateInput{Description: description, Persona: persona})
	if err != nil {
		i.svc.Finish(domain.MsgQuestFailed)
		return questdto.TaskOutput{}, err
	}
	task, err := i.quests.Add(ctx, questdto.AddInput{
		Description: description,
		Story:       narrative.Story,
		Points:      narrative.Points,
		DueDate:     due,
	})
	if err != nil {
		i.log.Error("store new quest", zap.Error(err))
		i.svc.Finish(domain.MsgQuestFailed)
		return questdto.TaskOutput{}, err
	}
	i.svc.Finish("")
	i.svc.Notify(domain.EventTasks)
	return task, nil
}

// CompleteTask marks the task done and credits its points to today. Unknown
// or already completed tasks earn nothing.
func (i *Interactor) CompleteTask(ctx context.Context, taskID string) (sessiondto.CompleteOutput, error) {
	done, err := i.quests.Complete(ctx, taskID)
	if err != nil {
		return sessiondto.CompleteOutput{}, err
	}
	out := sessiondto.CompleteOutput{TaskID: taskID}
	if !done.Earned {
		out.TodayTotal, _ = i.scores.CurrentTotal(ctx)
		return out, nil
	}
	i.svc.Notify(domain.EventTasks)
	if done.Points > 0 {
		recorded, err := i.scores.RecordPoints(ctx, done.Points)
		if err != nil {
			// The task stays completed; its points are not credited again.
			i.log.Error("credit completed quest", zap.String("task", taskID), zap.Int("points", done.Points), zap.Error(err))
			i.svc.Fail(domain.MsgCreditFailed)
			return sessiondto.CompleteOutput{}, err
		}
		out.Earned = done.Points
		out.TodayTotal = recorded.Total
		i.svc.Notify(domain.EventPoints)
		return out, nil
	}
	out.TodayTotal, _ = i.scores.CurrentTotal(ctx)
	return out, nil
}

func (i *Interactor) GetTask(ctx context.Context, taskID string) (questdto.TaskOutput, error) {
	return i.quests.Get(ctx, taskID)
}

func (i *Interactor) TasksForDay(ctx context.Context, day calendar.DateKey) ([]questdto.TaskOutput, error) {
	if day == "" {
		day = i.cal.TodayKey()
	}
	return i.quests.ListForDay(ctx, day)
}

func (i *Interactor) CurrentPoints(ctx context.Context) (int, error) {
	return i.scores.CurrentTotal(ctx)
}

func (i *Interactor) HighScore(ctx context.Context) (int, error) {
	return i.scores.HighScore(ctx)
}

func (i *Interactor) LeaderboardRecent(ctx context.Context, n int) ([]scoredto.EntryOutput, error) {
	return i.scores.Recent(ctx, n)
}

func (i *Interactor) Calendar(ctx context.Context, month time.Time) (sessiondto.MonthOutput, error) {
	counts, err := i.quests.CountByDay(ctx, month)
	if err != nil {
		return sessiondto.MonthOutput{}, err
	}
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, i.cal.Zone())
	today := i.cal.TodayKey()
	grid := i.cal.MonthGrid(first)
	weeks := make([][]sessiondto.DayCell, 0, len(grid))
	for _, row := range grid {
		week := make([]sessiondto.DayCell, len(row))
		for col, key := range row {
			if key == "" {
				continue
			}
			day, err := i.cal.Day(key)
			if err != nil {
				return sessiondto.MonthOutput{}, err
			}
			week[col] = sessiondto.DayCell{Key: key, Day: day.Day(), TaskCount: counts[key], IsToday: key == today}
		}
		weeks = append(weeks, week)
	}
	return sessiondto.MonthOutput{Month: first, Title: first.Format("January 2006"), Weeks: weeks}, nil
}

func (i *Interactor) Persona() (narrativedto.PersonaOutput, bool) {
	return i.svc.Persona()
}

func (i *Interactor) Status() sessiondto.StatusOutput {
	status := i.svc.Status()
	return sessiondto.StatusOutput{Loading: status.Loading, Error: status.Error}
}

func (i *Interactor) Today() calendar.DateKey {
	return i.cal.TodayKey()
}

func (i *Interactor) Subscribe(fn func(sessiondto.Event)) func() {
	return i.svc.Subscribe(func(kind domain.EventKind) {
		fn(sessiondto.Event{Kind: string(kind)})
	})
}
