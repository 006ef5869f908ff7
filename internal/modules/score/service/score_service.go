package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"taskquest/internal/modules/score/domain"
	scoreout "taskquest/internal/modules/score/port/out"
	"taskquest/internal/platform/calendar"
	apperrors "taskquest/internal/platform/errors"
)

type ScoreService struct {
	mu      sync.Mutex
	cal     *calendar.Calendar
	store   scoreout.LeaderboardStore
	log     *zap.Logger
	entries []domain.Entry
}

func NewScoreService(cal *calendar.Calendar, store scoreout.LeaderboardStore, log *zap.Logger) *ScoreService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ScoreService{cal: cal, store: store, log: log.Named("score"), entries: []domain.Entry{}}
}

func (s *ScoreService) Load(ctx context.Context) error {
	entries, err := s.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, apperrors.ErrPersistenceCorrupt) {
			return err
		}
		s.log.Warn("discarding corrupt leaderboard record", zap.Error(err))
		if resetErr := s.store.Reset(ctx); resetErr != nil {
			s.log.Error("reset leaderboard record", zap.Error(resetErr))
		}
		entries = []domain.Entry{}
	}
	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	s.log.Debug("leaderboard loaded", zap.Int("days", len(entries)))
	return nil
}

// CurrentTotal is today's points, zero when nothing was earned yet.
func (s *ScoreService) CurrentTotal() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.PointsOn(s.entries, s.cal.TodayKey())
}

// RecordPoints credits amount to today's entry. Zero is a no-op.
func (s *ScoreService) RecordPoints(ctx context.Context, amount int) (calendar.DateKey, int, error) {
	if amount < 0 {
		return "", 0, fmt.Errorf("%w: points must be non-negative, got %d", apperrors.ErrInvalidInput, amount)
	}
	today := s.cal.TodayKey()
	s.mu.Lock()
	defer s.mu.Unlock()
	if amount == 0 {
		return today, domain.PointsOn(s.entries, today), nil
	}
	next := domain.Credit(s.entries, today, amount)
	if err := s.store.Save(ctx, next); err != nil {
		return "", 0, fmt.Errorf("save leaderboard: %w", err)
	}
	s.entries = next
	total := domain.PointsOn(next, today)
	s.log.Info("points recorded", zap.String("date", today.String()), zap.Int("added", amount), zap.Int("total", total))
	return today, total, nil
}

func (s *ScoreService) HighScore() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.HighScore(s.entries)
}

func (s *ScoreService) Recent(n int) []domain.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Recent(s.entries, n)
}
