package in

import (
	"context"
	"time"

	"taskquest/internal/modules/quest/dto"
	"taskquest/internal/platform/calendar"
)

type Usecase interface {
	Load(ctx context.Context) error
	Add(ctx context.Context, input dto.AddInput) (dto.TaskOutput, error)
	Complete(ctx context.Context, taskID string) (dto.CompleteOutput, error)
	Get(ctx context.Context, taskID string) (dto.TaskOutput, error)
	ListAll(ctx context.Context) ([]dto.TaskOutput, error)
	ListForDay(ctx context.Context, day calendar.DateKey) ([]dto.TaskOutput, error)
	CountByDay(ctx context.Context, month time.Time) (map[calendar.DateKey]int, error)
}
