package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"taskquest/internal/modules/quest/domain"
	"taskquest/internal/modules/quest/service"
	"taskquest/internal/platform/calendar"
	"taskquest/internal/platform/clock"
	apperrors "taskquest/internal/platform/errors"
)

var tokyo = time.FixedZone("JST", 9*60*60)

type memStore struct {
	tasks   []domain.Task
	loadErr error
	saveErr error
	saves   int
	resets  int
}

func (m *memStore) Load(context.Context) ([]domain.Task, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]domain.Task{}, m.tasks...), nil
}

func (m *memStore) Save(_ context.Context, tasks []domain.Task) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.tasks = append([]domain.Task(nil), tasks...)
	return nil
}

func (m *memStore) Reset(context.Context) error {
	m.resets++
	m.tasks = nil
	return nil
}

type seqID struct{ n int }

func (s *seqID) New() string {
	s.n++
	return fmt.Sprintf("task-%d", s.n)
}

func newService(t *testing.T, store *memStore, log *zap.Logger) *service.QuestService {
	t.Helper()
	cal := calendar.New(clock.Fixed(time.Date(2026, 3, 1, 12, 0, 0, 0, tokyo)))
	svc := service.NewQuestService(cal, &seqID{}, store, log)
	require.NoError(t, svc.Load(context.Background()))
	return svc
}

func TestAddPrependsAndPersists(t *testing.T) {
	t.Parallel()
	store := &memStore{}
	svc := newService(t, store, nil)
	ctx := context.Background()
	due := time.Date(2026, 3, 1, 9, 0, 0, 0, tokyo)

	first, err := svc.Add(ctx, "Water the plants", "The garden wilts.", 15, due)
	require.NoError(t, err)
	second, err := svc.Add(ctx, "  Fix the boiler  ", "The forge is cold.", 55, due.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, "Fix the boiler", second.Description)
	assert.False(t, first.Completed)
	all := svc.All()
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)
	assert.Equal(t, all, store.tasks)
}

func TestAddRejectsInvalidInput(t *testing.T) {
	t.Parallel()
	svc := newService(t, &memStore{}, nil)
	ctx := context.Background()
	due := time.Date(2026, 3, 1, 9, 0, 0, 0, tokyo)

	_, err := svc.Add(ctx, "   ", "story", 10, due)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	_, err = svc.Add(ctx, "chores", "story", -1, due)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	assert.Empty(t, svc.All())
}

func TestCompleteIsIdempotent(t *testing.T) {
	t.Parallel()
	store := &memStore{}
	svc := newService(t, store, nil)
	ctx := context.Background()
	task, err := svc.Add(ctx, "Slay the laundry", "story", 40, time.Date(2026, 3, 1, 18, 0, 0, 0, tokyo))
	require.NoError(t, err)

	points, earned, err := svc.Complete(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, earned)
	assert.Equal(t, 40, points)
	saves := store.saves

	points, earned, err = svc.Complete(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, earned)
	assert.Zero(t, points)
	assert.Equal(t, saves, store.saves)

	points, earned, err = svc.Complete(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, earned)
	assert.Zero(t, points)

	got, err := svc.Get(task.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
}

func TestFailedSaveLeavesStateUnchanged(t *testing.T) {
	t.Parallel()
	store := &memStore{}
	svc := newService(t, store, nil)
	ctx := context.Background()
	task, err := svc.Add(ctx, "Sweep", "story", 20, time.Date(2026, 3, 1, 8, 0, 0, 0, tokyo))
	require.NoError(t, err)

	store.saveErr = errors.New("disk full")
	_, err = svc.Add(ctx, "Mop", "story", 20, time.Date(2026, 3, 1, 9, 0, 0, 0, tokyo))
	require.Error(t, err)
	_, earned, err := svc.Complete(ctx, task.ID)
	require.Error(t, err)
	assert.False(t, earned)

	all := svc.All()
	require.Len(t, all, 1)
	assert.False(t, all[0].Completed)
}

func TestFilterByDayBoundaries(t *testing.T) {
	t.Parallel()
	svc := newService(t, &memStore{}, nil)
	ctx := context.Background()
	for _, due := range []time.Time{
		time.Date(2026, 2, 28, 23, 59, 59, 0, tokyo),
		time.Date(2026, 3, 1, 0, 0, 0, 0, tokyo),
		time.Date(2026, 3, 1, 23, 59, 59, 0, tokyo),
		time.Date(2026, 3, 2, 0, 0, 0, 0, tokyo),
	} {
		_, err := svc.Add(ctx, "edge "+due.Format(time.RFC3339), "story", 10, due)
		require.NoError(t, err)
	}

	got := svc.FilterByDay(time.Date(2026, 3, 1, 12, 0, 0, 0, tokyo))
	require.Len(t, got, 2)
	for _, task := range got {
		assert.Equal(t, 1, task.DueDate.In(tokyo).Day())
	}
	assert.Empty(t, svc.FilterByDay(time.Date(2026, 3, 5, 0, 0, 0, 0, tokyo)))

	counts := svc.CountByDay()
	assert.Equal(t, 1, counts["2026-02-28"])
	assert.Equal(t, 2, counts["2026-03-01"])
	assert.Equal(t, 1, counts["2026-03-02"])
}

func TestLoadDiscardsCorruptRecord(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zapcore.WarnLevel)
	store := &memStore{loadErr: errors.Join(apperrors.ErrPersistenceCorrupt, errors.New("unexpected end of JSON input"))}
	svc := newService(t, store, zap.New(core))

	assert.Empty(t, svc.All())
	assert.Equal(t, 1, store.resets)
	require.Equal(t, 1, logs.FilterMessage("discarding corrupt task record").Len())
}

func TestLoadPropagatesReadErrors(t *testing.T) {
	t.Parallel()
	cal := calendar.New(clock.Fixed(time.Date(2026, 3, 1, 12, 0, 0, 0, tokyo)))
	store := &memStore{loadErr: errors.New("permission denied")}
	svc := service.NewQuestService(cal, &seqID{}, store, nil)
	require.Error(t, svc.Load(context.Background()))
	assert.Zero(t, store.resets)
}
