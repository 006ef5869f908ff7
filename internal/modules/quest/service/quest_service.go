package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"taskquest/internal/modules/quest/domain"
	questout "taskquest/internal/modules/quest/port/out"
	"taskquest/internal/platform/calendar"
	apperrors "taskquest/internal/platform/errors"
	"taskquest/internal/platform/id"
)

// QuestService owns the in-memory task collection. Every mutation is
// persisted before it becomes visible.
type QuestService struct {
	mu    sync.Mutex
	cal   *calendar.Calendar
	idGen id.Generator
	store questout.TaskStore
	log   *zap.Logger
	tasks []domain.Task
}

func NewQuestService(cal *calendar.Calendar, idGen id.Generator, store questout.TaskStore, log *zap.Logger) *QuestService {
	if log == nil {
		log = zap.NewNop()
	}
	return &QuestService{cal: cal, idGen: idGen, store: store, log: log.Named("quest"), tasks: []domain.Task{}}
}

func (s *QuestService) Load(ctx context.Context) error {
	tasks, err := s.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, apperrors.ErrPersistenceCorrupt) {
			return err
		}
		s.log.Warn("discarding corrupt task record", zap.Error(err))
		if resetErr := s.store.Reset(ctx); resetErr != nil {
			s.log.Error("reset task record", zap.Error(resetErr))
		}
		tasks = []domain.Task{}
	}
	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
	s.log.Debug("tasks loaded", zap.Int("count", len(tasks)))
	return nil
}

// Add prepends a new, incomplete task.
func (s *QuestService) Add(ctx context.Context, description, story string, points int, due time.Time) (domain.Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return domain.Task{}, fmt.Errorf("%w: description is required", apperrors.ErrInvalidInput)
	}
	if points < 0 {
		return domain.Task{}, fmt.Errorf("%w: points must be non-negative", apperrors.ErrInvalidInput)
	}
	task := domain.Task{
		ID:          s.idGen.New(),
		Description: description,
		Story:       story,
		Points:      points,
		DueDate:     due,
	}
	if err := task.Validate(); err != nil {
		return domain.Task{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]domain.Task, 0, len(s.tasks)+1)
	next = append(next, task)
	next = append(next, s.tasks...)
	if err := s.store.Save(ctx, next); err != nil {
		return domain.Task{}, fmt.Errorf("save tasks: %w", err)
	}
	s.tasks = next
	s.log.Info("task added", zap.String("id", task.ID), zap.Int("points", task.Points), zap.Time("due", task.DueDate))
	return task, nil
}

// Complete marks an incomplete task done and reports the points it earned.
// Unknown or already completed ids earn nothing and change nothing.
func (s *QuestService) Complete(ctx context.Context, taskID string) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, task := range s.tasks {
		if task.ID == taskID {
			idx = i
			break
		}
	}
	if idx < 0 || s.tasks[idx].Completed {
		return 0, false, nil
	}
	next := append([]domain.Task(nil), s.tasks...)
	next[idx].Completed = true
	if err := s.store.Save(ctx, next); err != nil {
		return 0, false, fmt.Errorf("save tasks: %w", err)
	}
	s.tasks = next
	s.log.Info("task completed", zap.String("id", taskID), zap.Int("points", next[idx].Points))
	return next[idx].Points, true, nil
}

func (s *QuestService) Get(taskID string) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, task := range s.tasks {
		if task.ID == taskID {
			return task, nil
		}
	}
	return domain.Task{}, fmt.Errorf("%w: task %s", apperrors.ErrNotFound, taskID)
}

func (s *QuestService) All() []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Task(nil), s.tasks...)
}

// FilterByDay keeps tasks whose due date falls on the same local calendar
// day as day, in collection order.
func (s *QuestService) FilterByDay(day time.Time) []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Task{}
	for _, task := range s.tasks {
		if s.cal.SameDay(task.DueDate, day) {
			out = append(out, task)
		}
	}
	return out
}

func (s *QuestService) CountByDay() map[calendar.DateKey]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[calendar.DateKey]int)
	for _, task := range s.tasks {
		counts[s.cal.KeyOf(task.DueDate)]++
	}
	return counts
}
