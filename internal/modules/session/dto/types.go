package dto

import (
	"time"

	"taskquest/internal/platform/calendar"
)

type StartInput struct {
	// Summon asks the narrator for a persona once the stores are loaded.
	Summon bool
}

type StartOutput struct {
	Today        calendar.DateKey
	PersonaReady bool
	Points       int
	HighScore    int
}

type AddTaskInput struct {
	Description string
	// Day defaults to today when empty.
	Day  calendar.DateKey
	Time string
}

type CompleteOutput struct {
	TaskID string
	Earned int
	// TodayTotal is today's points after the completion.
	TodayTotal int
}

type StatusOutput struct {
	Loading bool
	Error   string
}

type Event struct {
	Kind string
}

type DayCell struct {
	Key       calendar.DateKey
	Day       int
	TaskCount int
	IsToday   bool
}

type MonthOutput struct {
	Month time.Time
	Title string
	// Weeks run Sunday to Saturday; cells outside the month have an empty Key.
	Weeks [][]DayCell
}
