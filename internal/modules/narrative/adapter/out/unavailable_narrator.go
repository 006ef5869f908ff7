package out

import (
	"context"

	"taskquest/internal/modules/narrative/domain"
	narrativeout "taskquest/internal/modules/narrative/port/out"
)

// UnavailableNarrator fails every call with the reason the real backend
// could not be built, so the session can still start without one.
type UnavailableNarrator struct {
	backend string
	reason  error
}

func NewUnavailableNarrator(backend string, reason error) narrativeout.Narrator {
	return &UnavailableNarrator{backend: backend, reason: reason}
}

func (n *UnavailableNarrator) Name() string { return n.backend }

func (n *UnavailableNarrator) CreatePersona(context.Context) (domain.PersonaPayload, error) {
	return domain.PersonaPayload{}, n.reason
}

func (n *UnavailableNarrator) CreateTaskNarrative(context.Context, domain.NarrativeRequest) (domain.NarrativePayload, error) {
	return domain.NarrativePayload{}, n.reason
}
