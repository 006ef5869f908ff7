package in

import (
	"context"
	"time"

	narrativedto "taskquest/internal/modules/narrative/dto"
	questdto "taskquest/internal/modules/quest/dto"
	scoredto "taskquest/internal/modules/score/dto"
	"taskquest/internal/modules/session/dto"
	sessionin "taskquest/internal/modules/session/port/in"
	"taskquest/internal/platform/calendar"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, summon bool) (dto.StartOutput, error) {
	return h.usecase.Start(ctx, dto.StartInput{Summon: summon})
}

func (h CLIHandler) Summon(ctx context.Context) (narrativedto.PersonaOutput, error) {
	return h.usecase.Summon(ctx)
}

func (h CLIHandler) AddTask(ctx context.Context, description, day, hhmm string) (questdto.TaskOutput, error) {
	return h.usecase.AddTask(ctx, dto.AddTaskInput{Description: description, Day: calendar.DateKey(day), Time: hhmm})
}

func (h CLIHandler) CompleteTask(ctx context.Context, taskID string) (dto.CompleteOutput, error) {
	return h.usecase.CompleteTask(ctx, taskID)
}

func (h CLIHandler) GetTask(ctx context.Context, taskID string) (questdto.TaskOutput, error) {
	return h.usecase.GetTask(ctx, taskID)
}

func (h CLIHandler) TasksForDay(ctx context.Context, day string) ([]questdto.TaskOutput, error) {
	return h.usecase.TasksForDay(ctx, calendar.DateKey(day))
}

func (h CLIHandler) CurrentPoints(ctx context.Context) (int, error) {
	return h.usecase.CurrentPoints(ctx)
}

func (h CLIHandler) HighScore(ctx context.Context) (int, error) {
	return h.usecase.HighScore(ctx)
}

func (h CLIHandler) LeaderboardRecent(ctx context.Context, n int) ([]scoredto.EntryOutput, error) {
	return h.usecase.LeaderboardRecent(ctx, n)
}

func (h CLIHandler) Calendar(ctx context.Context, month time.Time) (dto.MonthOutput, error) {
	return h.usecase.Calendar(ctx, month)
}

func (h CLIHandler) Persona() (narrativedto.PersonaOutput, bool) {
	return h.usecase.Persona()
}

func (h CLIHandler) Status() dto.StatusOutput {
	return h.usecase.Status()
}

func (h CLIHandler) Today() string {
	return h.usecase.Today().String()
}

func (h CLIHandler) Subscribe(fn func(dto.Event)) func() {
	return h.usecase.Subscribe(fn)
}
