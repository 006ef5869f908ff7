package out

import (
	"context"

	"taskquest/internal/modules/score/domain"
)

// LeaderboardStore persists all day entries as one record. Load reports
// undecodable or invalid data with apperrors.ErrPersistenceCorrupt.
type LeaderboardStore interface {
	Load(ctx context.Context) ([]domain.Entry, error)
	Save(ctx context.Context, entries []domain.Entry) error
	Reset(ctx context.Context) error
}
