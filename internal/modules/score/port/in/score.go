package in

import (
	"context"

	"taskquest/internal/modules/score/dto"
)

type Usecase interface {
	Load(ctx context.Context) error
	CurrentTotal(ctx context.Context) (int, error)
	RecordPoints(ctx context.Context, amount int) (dto.RecordOutput, error)
	HighScore(ctx context.Context) (int, error)
	Recent(ctx context.Context, n int) ([]dto.EntryOutput, error)
}
