package dto

import "taskquest/internal/platform/calendar"

type EntryOutput struct {
	Date        calendar.DateKey
	Label       string
	Points      int
	IsToday     bool
	IsHighScore bool
}

type RecordOutput struct {
	Date  calendar.DateKey
	Added int
	// Total is the day's points after the credit.
	Total int
}
