package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"taskquest/internal/modules/score/domain"
)

func TestCreditIsAdditivePerDay(t *testing.T) {
	t.Parallel()
	var entries []domain.Entry
	for _, amount := range []int{15, 25, 5} {
		entries = domain.Credit(entries, "2026-03-01", amount)
	}
	assert.Len(t, entries, 1)
	assert.Equal(t, 45, domain.PointsOn(entries, "2026-03-01"))
	assert.Zero(t, domain.PointsOn(entries, "2026-03-02"))
}

func TestCreditDoesNotMutateInput(t *testing.T) {
	t.Parallel()
	entries := []domain.Entry{{Date: "2026-03-01", Points: 10}}
	next := domain.Credit(entries, "2026-03-01", 5)
	assert.Equal(t, 10, entries[0].Points)
	assert.Equal(t, 15, next[0].Points)
}

func TestCreditPutsNewDayFirst(t *testing.T) {
	t.Parallel()
	entries := []domain.Entry{{Date: "2026-03-01", Points: 15}}
	got := domain.Credit(entries, "2026-03-02", 40)
	assert.Equal(t, []domain.Entry{{Date: "2026-03-02", Points: 40}, {Date: "2026-03-01", Points: 15}}, got)

	got = domain.Credit(got, "2026-03-01", 5)
	assert.Equal(t, []domain.Entry{{Date: "2026-03-02", Points: 40}, {Date: "2026-03-01", Points: 20}}, got)
}

func TestRecentAndHighScore(t *testing.T) {
	t.Parallel()
	entries := []domain.Entry{
		{Date: "2026-02-27", Points: 80},
		{Date: "2026-03-01", Points: 30},
		{Date: "2026-02-28", Points: 50},
	}
	recent := domain.Recent(entries, 2)
	assert.Equal(t, []domain.Entry{{Date: "2026-03-01", Points: 30}, {Date: "2026-02-28", Points: 50}}, recent)
	assert.Len(t, domain.Recent(entries, 10), 3)
	assert.Empty(t, domain.Recent(entries, 0))
	assert.Equal(t, 80, domain.HighScore(entries))
	assert.Zero(t, domain.HighScore(nil))
}

func TestValidateEntries(t *testing.T) {
	t.Parallel()
	assert.NoError(t, domain.ValidateEntries([]domain.Entry{{Date: "2026-03-01", Points: 0}}))
	assert.Error(t, domain.ValidateEntries([]domain.Entry{{Date: "03/01/2026", Points: 1}}))
	assert.Error(t, domain.ValidateEntries([]domain.Entry{{Date: "2026-03-01", Points: -1}}))
	assert.Error(t, domain.ValidateEntries([]domain.Entry{{Date: "2026-03-01"}, {Date: "2026-03-01"}}))
}
