package domain

import (
	"fmt"
	"strings"
	"time"
)

type Task struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Story       string    `json:"story"`
	Points      int       `json:"points"`
	Completed   bool      `json:"completed"`
	DueDate     time.Time `json:"dueDate"`
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(t.Description) == "" {
		return fmt.Errorf("description is required")
	}
	if t.Points < 0 {
		return fmt.Errorf("points must be non-negative, got %d", t.Points)
	}
	if t.DueDate.IsZero() {
		return fmt.Errorf("due date is required")
	}
	return nil
}

// ValidateCollection checks every task and that ids are unique.
func ValidateCollection(tasks []Task) error {
	seen := make(map[string]struct{}, len(tasks))
	for i, task := range tasks {
		if err := task.Validate(); err != nil {
			return fmt.Errorf("task %d: %w", i, err)
		}
		if _, dup := seen[task.ID]; dup {
			return fmt.Errorf("task %d: duplicate id %s", i, task.ID)
		}
		seen[task.ID] = struct{}{}
	}
	return nil
}
