package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"taskquest/internal/modules/narrative/domain"
	narrativeout "taskquest/internal/modules/narrative/port/out"
	apperrors "taskquest/internal/platform/errors"
)

type NarrativeService struct {
	narrator narrativeout.Narrator
	validate *validator.Validate
	log      *zap.Logger
}

func NewNarrativeService(narrator narrativeout.Narrator, log *zap.Logger) *NarrativeService {
	if log == nil {
		log = zap.NewNop()
	}
	return &NarrativeService{
		narrator: narrator,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log.Named("narrative").With(zap.String("backend", narrator.Name())),
	}
}

// GeneratePersona asks the narrator for a quest giver. One attempt, no retry.
func (s *NarrativeService) GeneratePersona(ctx context.Context) (domain.Character, error) {
	payload, err := s.narrator.CreatePersona(ctx)
	if err != nil {
		s.log.Warn("create persona", zap.Error(err))
		return domain.Character{}, fmt.Errorf("%w: create persona: %w", apperrors.ErrService, err)
	}
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Description = strings.TrimSpace(payload.Description)
	if err := s.validate.Struct(payload); err != nil {
		s.log.Warn("persona payload rejected", zap.Error(err))
		return domain.Character{}, fmt.Errorf("%w: persona payload: %v", apperrors.ErrService, err)
	}
	return domain.Character{Name: payload.Name, Description: payload.Description}, nil
}

// GenerateTaskNarrative returns a story and a score clamped into [10, 100].
// The bool reports whether clamping changed the score.
func (s *NarrativeService) GenerateTaskNarrative(ctx context.Context, description string, persona domain.Character) (domain.Narrative, bool, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return domain.Narrative{}, false, fmt.Errorf("%w: description is required", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(persona.Name) == "" {
		return domain.Narrative{}, false, apperrors.ErrNoPersona
	}
	payload, err := s.narrator.CreateTaskNarrative(ctx, domain.NarrativeRequest{Description: description, Persona: persona})
	if err != nil {
		s.log.Warn("create task narrative", zap.Error(err))
		return domain.Narrative{}, false, fmt.Errorf("%w: create narrative: %w", apperrors.ErrService, err)
	}
	payload.Story = strings.TrimSpace(payload.Story)
	if err := s.validate.Struct(payload); err != nil {
		s.log.Warn("narrative payload rejected", zap.Error(err))
		return domain.Narrative{}, false, fmt.Errorf("%w: narrative payload: %v", apperrors.ErrService, err)
	}
	raw, err := payload.IntPoints()
	if err != nil {
		s.log.Warn("narrative payload rejected", zap.Error(err))
		return domain.Narrative{}, false, fmt.Errorf("%w: narrative payload: %v", apperrors.ErrService, err)
	}
	points := domain.ClampPoints(raw)
	if points != raw {
		s.log.Info("narrator points clamped", zap.Int("raw", raw), zap.Int("points", points))
	}
	return domain.Narrative{Story: payload.Story, Points: points}, points != raw, nil
}
