// Package calendar buckets instants into local calendar days.
//
// The zone is captured once when a Calendar is built, so every "today" and
// same-day decision in a session agrees even if the process's zone settings
// change underneath it.
package calendar

import (
	"fmt"
	"time"

	"taskquest/internal/platform/clock"
	apperrors "taskquest/internal/platform/errors"
)

const (
	keyLayout   = "2006-01-02"
	monthLayout = "2006-01"
	timeLayout  = "15:04"
	labelLayout = "Jan 2, 2006"
)

// DateKey identifies a local calendar date as YYYY-MM-DD. Keys sort
// lexicographically in date order.
type DateKey string

func (k DateKey) String() string { return string(k) }

// ParseKey validates a YYYY-MM-DD key.
func ParseKey(s string) (DateKey, error) {
	t, err := time.Parse(keyLayout, s)
	if err != nil || t.Format(keyLayout) != s {
		return "", fmt.Errorf("%w: date %q must be YYYY-MM-DD", apperrors.ErrInvalidInput, s)
	}
	return DateKey(s), nil
}

// ParseMonth parses a YYYY-MM month into the first day of that month in zone.
func ParseMonth(s string, zone *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(monthLayout, s, zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: month %q must be YYYY-MM", apperrors.ErrInvalidInput, s)
	}
	return t, nil
}

// Calendar answers day questions in the zone captured at construction.
type Calendar struct {
	clock  clock.Clock
	zone   *time.Location
	offset time.Duration
}

// New captures the zone name and UTC offset of clk.Now().
func New(clk clock.Clock) *Calendar {
	name, offset := clk.Now().Zone()
	return &Calendar{
		clock:  clk,
		zone:   time.FixedZone(name, offset),
		offset: time.Duration(offset) * time.Second,
	}
}

func (c *Calendar) Zone() *time.Location { return c.zone }

// Now is the clock's instant expressed in the captured zone.
func (c *Calendar) Now() time.Time { return c.clock.Now().In(c.zone) }

// TodayKey shifts now by the captured UTC offset and truncates to a date.
func (c *Calendar) TodayKey() DateKey {
	return c.KeyOf(c.clock.Now())
}

func (c *Calendar) KeyOf(t time.Time) DateKey {
	return DateKey(t.UTC().Add(c.offset).Format(keyLayout))
}

// SameDay reports whether a and b fall on the same local calendar day.
func (c *Calendar) SameDay(a, b time.Time) bool {
	ay, am, ad := a.In(c.zone).Date()
	by, bm, bd := b.In(c.zone).Date()
	return ay == by && am == bm && ad == bd
}

// Day returns local midnight of k.
func (c *Calendar) Day(k DateKey) (time.Time, error) {
	t, err := time.ParseInLocation(keyLayout, string(k), c.zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", apperrors.ErrInvalidInput, string(k))
	}
	return t, nil
}

// At combines a day with an HH:MM time of day.
func (c *Calendar) At(k DateKey, hhmm string) (time.Time, error) {
	day, err := c.Day(k)
	if err != nil {
		return time.Time{}, err
	}
	tod, err := time.Parse(timeLayout, hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: time %q must be HH:MM", apperrors.ErrInvalidInput, hhmm)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), tod.Hour(), tod.Minute(), 0, 0, c.zone), nil
}

// AddDays moves k by n calendar days.
func (c *Calendar) AddDays(k DateKey, n int) DateKey {
	day, err := c.Day(k)
	if err != nil {
		return k
	}
	return DateKey(day.AddDate(0, 0, n).Format(keyLayout))
}

// Label renders k as "Today", "Yesterday" or a short date.
func (c *Calendar) Label(k DateKey) string {
	today := c.TodayKey()
	switch k {
	case today:
		return "Today"
	case c.AddDays(today, -1):
		return "Yesterday"
	}
	day, err := c.Day(k)
	if err != nil {
		return string(k)
	}
	return day.Format(labelLayout)
}

// MonthOf returns the first day of the month containing k.
func (c *Calendar) MonthOf(k DateKey) time.Time {
	day, err := c.Day(k)
	if err != nil {
		day = c.Now()
	}
	return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, c.zone)
}

// MonthGrid lays out the month containing month as Sunday-first weeks.
// Cells outside the month are empty keys.
func (c *Calendar) MonthGrid(month time.Time) [][]DateKey {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, c.zone)
	var weeks [][]DateKey
	week := make([]DateKey, 7)
	col := int(first.Weekday())
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		week[col] = DateKey(d.Format(keyLayout))
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = make([]DateKey, 7)
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}
