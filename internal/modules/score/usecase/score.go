package usecase

import (
	"context"

	"taskquest/internal/modules/score/dto"
	scorein "taskquest/internal/modules/score/port/in"
	"taskquest/internal/modules/score/service"
	"taskquest/internal/platform/calendar"
)

type Interactor struct {
	svc *service.ScoreService
	cal *calendar.Calendar
}

func NewInteractor(svc *service.ScoreService, cal *calendar.Calendar) scorein.Usecase {
	return &Interactor{svc: svc, cal: cal}
}

func (i *Interactor) Load(ctx context.Context) error {
	return i.svc.Load(ctx)
}

func (i *Interactor) CurrentTotal(_ context.Context) (int, error) {
	return i.svc.CurrentTotal(), nil
}

func (i *Interactor) RecordPoints(ctx context.Context, amount int) (dto.RecordOutput, error) {
	day, total, err := i.svc.RecordPoints(ctx, amount)
	if err != nil {
		return dto.RecordOutput{}, err
	}
	return dto.RecordOutput{Date: day, Added: amount, Total: total}, nil
}

func (i *Interactor) HighScore(_ context.Context) (int, error) {
	return i.svc.HighScore(), nil
}

// Recent labels the newest n days and flags today and the all-time best.
func (i *Interactor) Recent(_ context.Context, n int) ([]dto.EntryOutput, error) {
	best := i.svc.HighScore()
	today := i.cal.TodayKey()
	entries := i.svc.Recent(n)
	out := make([]dto.EntryOutput, 0, len(entries))
	for _, entry := range entries {
		out = append(out, dto.EntryOutput{
			Date:        entry.Date,
			Label:       i.cal.Label(entry.Date),
			Points:      entry.Points,
			IsToday:     entry.Date == today,
			IsHighScore: best > 0 && entry.Points == best,
		})
	}
	return out, nil
}
