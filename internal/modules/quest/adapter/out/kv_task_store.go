package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"taskquest/internal/modules/quest/domain"
	questout "taskquest/internal/modules/quest/port/out"
	apperrors "taskquest/internal/platform/errors"
	"taskquest/internal/platform/kv"
)

type KVTaskStore struct {
	store kv.Store
}

func NewKVTaskStore(store kv.Store) questout.TaskStore {
	return &KVTaskStore{store: store}
}

func (s *KVTaskStore) Load(ctx context.Context) ([]domain.Task, error) {
	payload, err := s.store.Get(ctx, kv.KeyTasks)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return []domain.Task{}, nil
		}
		return nil, err
	}
	tasks := []domain.Task{}
	if err := json.Unmarshal(payload, &tasks); err != nil {
		return nil, fmt.Errorf("%w: decode tasks: %v", apperrors.ErrPersistenceCorrupt, err)
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	if err := domain.ValidateCollection(tasks); err != nil {
		return nil, fmt.Errorf("%w: tasks: %v", apperrors.ErrPersistenceCorrupt, err)
	}
	return tasks, nil
}

func (s *KVTaskStore) Save(ctx context.Context, tasks []domain.Task) error {
	payload, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	return s.store.Put(ctx, kv.KeyTasks, payload)
}

func (s *KVTaskStore) Reset(ctx context.Context) error {
	return s.store.Delete(ctx, kv.KeyTasks)
}
