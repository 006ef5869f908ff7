package in

import (
	"context"
	"time"

	narrativedto "taskquest/internal/modules/narrative/dto"
	questdto "taskquest/internal/modules/quest/dto"
	scoredto "taskquest/internal/modules/score/dto"
	"taskquest/internal/modules/session/dto"
	"taskquest/internal/platform/calendar"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.StartOutput, error)
	Summon(ctx context.Context) (narrativedto.PersonaOutput, error)
	AddTask(ctx context.Context, input dto.AddTaskInput) (questdto.TaskOutput, error)
	CompleteTask(ctx context.Context, taskID string) (dto.CompleteOutput, error)
	GetTask(ctx context.Context, taskID string) (questdto.TaskOutput, error)
	TasksForDay(ctx context.Context, day calendar.DateKey) ([]questdto.TaskOutput, error)
	CurrentPoints(ctx context.Context) (int, error)
	HighScore(ctx context.Context) (int, error)
	LeaderboardRecent(ctx context.Context, n int) ([]scoredto.EntryOutput, error)
	Calendar(ctx context.Context, month time.Time) (dto.MonthOutput, error)
	Persona() (narrativedto.PersonaOutput, bool)
	Status() dto.StatusOutput
	Today() calendar.DateKey
	Subscribe(fn func(dto.Event)) (unsubscribe func())
}
