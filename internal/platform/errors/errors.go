package apperrors

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrPersistenceCorrupt = errors.New("persisted data is corrupt")
	ErrService            = errors.New("narrator service failed")
	ErrNoPersona          = errors.New("quest giver has not arrived yet")
	ErrBusy               = errors.New("another quest is being written")
)
