package usecase

import (
	"context"
	"sort"
	"time"

	"taskquest/internal/modules/quest/domain"
	"taskquest/internal/modules/quest/dto"
	questin "taskquest/internal/modules/quest/port/in"
	"taskquest/internal/modules/quest/service"
	"taskquest/internal/platform/calendar"
)

type Interactor struct {
	svc *service.QuestService
	cal *calendar.Calendar
}

func NewInteractor(svc *service.QuestService, cal *calendar.Calendar) questin.Usecase {
	return &Interactor{svc: svc, cal: cal}
}

func (i *Interactor) Load(ctx context.Context) error {
	return i.svc.Load(ctx)
}

func (i *Interactor) Add(ctx context.Context, input dto.AddInput) (dto.TaskOutput, error) {
	task, err := i.svc.Add(ctx, input.Description, input.Story, input.Points, input.DueDate)
	if err != nil {
		return dto.TaskOutput{}, err
	}
	return toOutput(task), nil
}

func (i *Interactor) Complete(ctx context.Context, taskID string) (dto.CompleteOutput, error) {
	points, earned, err := i.svc.Complete(ctx, taskID)
	if err != nil {
		return dto.CompleteOutput{}, err
	}
	return dto.CompleteOutput{TaskID: taskID, Earned: earned, Points: points}, nil
}

func (i *Interactor) Get(_ context.Context, taskID string) (dto.TaskOutput, error) {
	task, err := i.svc.Get(taskID)
	if err != nil {
		return dto.TaskOutput{}, err
	}
	return toOutput(task), nil
}

func (i *Interactor) ListAll(_ context.Context) ([]dto.TaskOutput, error) {
	return toOutputs(i.svc.All()), nil
}

// ListForDay returns the day's tasks ordered by due time.
func (i *Interactor) ListForDay(_ context.Context, day calendar.DateKey) ([]dto.TaskOutput, error) {
	start, err := i.cal.Day(day)
	if err != nil {
		return nil, err
	}
	out := toOutputs(i.svc.FilterByDay(start))
	sort.SliceStable(out, func(a, b int) bool { return out[a].DueDate.Before(out[b].DueDate) })
	return out, nil
}

// CountByDay reports how many tasks fall due on each day of month.
func (i *Interactor) CountByDay(_ context.Context, month time.Time) (map[calendar.DateKey]int, error) {
	all := i.svc.CountByDay()
	out := make(map[calendar.DateKey]int)
	for _, week := range i.cal.MonthGrid(month) {
		for _, key := range week {
			if key == "" {
				continue
			}
			if n := all[key]; n > 0 {
				out[key] = n
			}
		}
	}
	return out, nil
}

func toOutputs(tasks []domain.Task) []dto.TaskOutput {
	out := make([]dto.TaskOutput, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, toOutput(task))
	}
	return out
}

func toOutput(task domain.Task) dto.TaskOutput {
	return dto.TaskOutput{
		ID:          task.ID,
		Description: task.Description,
		Story:       task.Story,
		Points:      task.Points,
		Completed:   task.Completed,
		DueDate:     task.DueDate,
	}
}
