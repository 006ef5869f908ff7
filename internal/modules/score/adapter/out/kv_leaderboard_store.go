package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"taskquest/internal/modules/score/domain"
	scoreout "taskquest/internal/modules/score/port/out"
	apperrors "taskquest/internal/platform/errors"
	"taskquest/internal/platform/kv"
)

type KVLeaderboardStore struct {
	store kv.Store
}

func NewKVLeaderboardStore(store kv.Store) scoreout.LeaderboardStore {
	return &KVLeaderboardStore{store: store}
}

func (s *KVLeaderboardStore) Load(ctx context.Context) ([]domain.Entry, error) {
	payload, err := s.store.Get(ctx, kv.KeyLeaderboard)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return []domain.Entry{}, nil
		}
		return nil, err
	}
	entries := []domain.Entry{}
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, fmt.Errorf("%w: decode leaderboard: %v", apperrors.ErrPersistenceCorrupt, err)
	}
	if entries == nil {
		entries = []domain.Entry{}
	}
	if err := domain.ValidateEntries(entries); err != nil {
		return nil, fmt.Errorf("%w: leaderboard: %v", apperrors.ErrPersistenceCorrupt, err)
	}
	return entries, nil
}

func (s *KVLeaderboardStore) Save(ctx context.Context, entries []domain.Entry) error {
	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal leaderboard: %w", err)
	}
	return s.store.Put(ctx, kv.KeyLeaderboard, payload)
}

func (s *KVLeaderboardStore) Reset(ctx context.Context) error {
	return s.store.Delete(ctx, kv.KeyLeaderboard)
}
