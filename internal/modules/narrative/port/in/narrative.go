package in

import (
	"context"

	"taskquest/internal/modules/narrative/dto"
)

type Usecase interface {
	GeneratePersona(ctx context.Context) (dto.PersonaOutput, error)
	GenerateTaskNarrative(ctx context.Context, input dto.NarrateInput) (dto.NarrateOutput, error)
}
