package usecase

import (
	"context"

	"taskquest/internal/modules/narrative/domain"
	"taskquest/internal/modules/narrative/dto"
	narrativein "taskquest/internal/modules/narrative/port/in"
	"taskquest/internal/modules/narrative/service"
)

type Interactor struct {
	svc *service.NarrativeService
}

func NewInteractor(svc *service.NarrativeService) narrativein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) GeneratePersona(ctx context.Context) (dto.PersonaOutput, error) {
	persona, err := i.svc.GeneratePersona(ctx)
	if err != nil {
		return dto.PersonaOutput{}, err
	}
	return dto.PersonaOutput{Name: persona.Name, Description: persona.Description}, nil
}

func (i *Interactor) GenerateTaskNarrative(ctx context.Context, input dto.NarrateInput) (dto.NarrateOutput, error) {
	persona := domain.Character{Name: input.Persona.Name, Description: input.Persona.Description}
	narrative, clamped, err := i.svc.GenerateTaskNarrative(ctx, input.Description, persona)
	if err != nil {
		return dto.NarrateOutput{}, err
	}
	return dto.NarrateOutput{Story: narrative.Story, Points: narrative.Points, Clamped: clamped}, nil
}
