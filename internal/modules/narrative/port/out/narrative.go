package out

import (
	"context"

	"taskquest/internal/modules/narrative/domain"
)

// Narrator is a text generation backend. Implementations return raw
// payloads; shape checks and clamping happen in the service.
type Narrator interface {
	Name() string
	CreatePersona(ctx context.Context) (domain.PersonaPayload, error)
	CreateTaskNarrative(ctx context.Context, req domain.NarrativeRequest) (domain.NarrativePayload, error)
}
