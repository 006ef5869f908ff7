package dto

import "time"

type AddInput struct {
	Description string
	Story       string
	Points      int
	DueDate     time.Time
}

type TaskOutput struct {
	ID          string
	Description string
	Story       string
	Points      int
	Completed   bool
	DueDate     time.Time
}

type CompleteOutput struct {
	TaskID string
	// Earned is false when the task was missing or already completed.
	Earned bool
	Points int
}
