package service

import (
	"sync"

	"go.uber.org/zap"

	narrativedto "taskquest/internal/modules/narrative/dto"
	"taskquest/internal/modules/session/domain"
	apperrors "taskquest/internal/platform/errors"
)

// SessionService holds the per-session state the presentation layer reads:
// the quest giver, the loading/error status and change listeners.
type SessionService struct {
	mu        sync.Mutex
	guard     domain.Guard
	persona   *narrativedto.PersonaOutput
	status    domain.Status
	listeners map[int]func(domain.EventKind)
	nextID    int
	log       *zap.Logger
}

func NewSessionService(log *zap.Logger) *SessionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionService{listeners: map[int]func(domain.EventKind){}, log: log.Named("session")}
}

// Begin claims the narrator for one call and flags the session as loading.
func (s *SessionService) Begin() error {
	if !s.guard.TryAcquire() {
		return apperrors.ErrBusy
	}
	s.mu.Lock()
	s.status = domain.Status{Loading: true}
	s.mu.Unlock()
	s.notify(domain.EventStatus)
	return nil
}

// Finish releases the narrator and records msg as the visible error, if any.
func (s *SessionService) Finish(msg string) {
	s.mu.Lock()
	s.status = domain.Status{Error: msg}
	s.mu.Unlock()
	s.guard.Release()
	s.notify(domain.EventStatus)
}

func (s *SessionService) Fail(msg string) {
	s.mu.Lock()
	s.status.Error = msg
	s.mu.Unlock()
	s.notify(domain.EventStatus)
}

func (s *SessionService) Status() domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *SessionService) SetPersona(persona narrativedto.PersonaOutput) {
	s.mu.Lock()
	s.persona = &persona
	s.mu.Unlock()
	s.log.Info("quest giver arrived", zap.String("name", persona.Name))
	s.notify(domain.EventPersona)
}

func (s *SessionService) Persona() (narrativedto.PersonaOutput, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.persona == nil {
		return narrativedto.PersonaOutput{}, false
	}
	return *s.persona, true
}

func (s *SessionService) Subscribe(fn func(domain.EventKind)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *SessionService) Notify(kind domain.EventKind) {
	s.notify(kind)
}

// notify runs listeners outside the lock so they may read session state.
func (s *SessionService) notify(kind domain.EventKind) {
	s.mu.Lock()
	fns := make([]func(domain.EventKind), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(kind)
	}
}
