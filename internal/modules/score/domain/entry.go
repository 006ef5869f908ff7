package domain

import (
	"fmt"
	"sort"

	"taskquest/internal/platform/calendar"
)

// Entry is the points total earned on one local calendar day.
type Entry struct {
	Date   calendar.DateKey `json:"date"`
	Points int              `json:"points"`
}

// ValidateEntries rejects malformed dates, negative totals and repeated days.
func ValidateEntries(entries []Entry) error {
	seen := make(map[calendar.DateKey]struct{}, len(entries))
	for i, entry := range entries {
		if _, err := calendar.ParseKey(string(entry.Date)); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		if entry.Points < 0 {
			return fmt.Errorf("entry %d: points must be non-negative, got %d", i, entry.Points)
		}
		if _, dup := seen[entry.Date]; dup {
			return fmt.Errorf("entry %d: duplicate date %s", i, entry.Date)
		}
		seen[entry.Date] = struct{}{}
	}
	return nil
}

// Credit adds amount to day's entry, creating it at the front when absent.
// The input slice is not modified.
func Credit(entries []Entry, day calendar.DateKey, amount int) []Entry {
	next := append([]Entry(nil), entries...)
	for i := range next {
		if next[i].Date == day {
			next[i].Points += amount
			return next
		}
	}
	return append([]Entry{{Date: day, Points: amount}}, next...)
}

func PointsOn(entries []Entry, day calendar.DateKey) int {
	for _, entry := range entries {
		if entry.Date == day {
			return entry.Points
		}
	}
	return 0
}

func HighScore(entries []Entry) int {
	best := 0
	for _, entry := range entries {
		if entry.Points > best {
			best = entry.Points
		}
	}
	return best
}

// Recent returns up to n entries, newest date first.
func Recent(entries []Entry, n int) []Entry {
	if n <= 0 {
		return []Entry{}
	}
	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(a, b int) bool { return sorted[a].Date > sorted[b].Date })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
