package out

import (
	"context"

	"taskquest/internal/modules/quest/domain"
)

// TaskStore persists the whole task collection as one record. Load reports
// undecodable or invalid data with apperrors.ErrPersistenceCorrupt.
type TaskStore interface {
	Load(ctx context.Context) ([]domain.Task, error)
	Save(ctx context.Context, tasks []domain.Task) error
	Reset(ctx context.Context) error
}
