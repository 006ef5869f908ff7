package bootstrap

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	narrativeoutadapter "taskquest/internal/modules/narrative/adapter/out"
	narrativeout "taskquest/internal/modules/narrative/port/out"
	narrativeservice "taskquest/internal/modules/narrative/service"
	narrativeusecase "taskquest/internal/modules/narrative/usecase"
	questoutadapter "taskquest/internal/modules/quest/adapter/out"
	questservice "taskquest/internal/modules/quest/service"
	questusecase "taskquest/internal/modules/quest/usecase"
	scoreoutadapter "taskquest/internal/modules/score/adapter/out"
	scoreservice "taskquest/internal/modules/score/service"
	scoreusecase "taskquest/internal/modules/score/usecase"
	sessioninadapter "taskquest/internal/modules/session/adapter/in"
	sessiondto "taskquest/internal/modules/session/dto"
	sessionservice "taskquest/internal/modules/session/service"
	sessionusecase "taskquest/internal/modules/session/usecase"
	"taskquest/internal/platform/calendar"
	"taskquest/internal/platform/clock"
	"taskquest/internal/platform/config"
	"taskquest/internal/platform/id"
	"taskquest/internal/platform/kv"
	uiapp "taskquest/internal/ui/app"
)

type App struct {
	Config     config.Config
	SessionCLI sessioninadapter.CLIHandler
	Log        *zap.Logger

	records kv.Store
}

// Option overrides a collaborator, mostly for tests.
type Option func(*deps)

type deps struct {
	clock    clock.Clock
	ids      id.Generator
	narrator narrativeout.Narrator
}

func WithClock(clk clock.Clock) Option { return func(d *deps) { d.clock = clk } }

func WithNarrator(n narrativeout.Narrator) Option { return func(d *deps) { d.narrator = n } }

func New(cfg config.Config, log *zap.Logger, opts ...Option) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	d := deps{clock: clock.SystemClock{}, ids: id.UUID{}}
	for _, opt := range opts {
		opt(&d)
	}
	if d.narrator == nil {
		d.narrator = newNarrator(cfg, log)
	}

	records, err := kv.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open record store: %w", err)
	}
	cal := calendar.New(d.clock)

	questUC := questusecase.NewInteractor(
		questservice.NewQuestService(cal, d.ids, questoutadapter.NewKVTaskStore(records), log),
		cal,
	)
	scoreUC := scoreusecase.NewInteractor(
		scoreservice.NewScoreService(cal, scoreoutadapter.NewKVLeaderboardStore(records), log),
		cal,
	)
	narrativeUC := narrativeusecase.NewInteractor(narrativeservice.NewNarrativeService(d.narrator, log))
	sessionUC := sessionusecase.NewInteractor(
		sessionservice.NewSessionService(log),
		questUC,
		scoreUC,
		narrativeUC,
		cal,
		log,
	)

	log.Debug("app wired",
		zap.String("data_dir", cfg.DataDir),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("narrator", d.narrator.Name()),
		zap.String("zone", cal.Zone().String()),
	)
	return &App{
		Config:     cfg,
		SessionCLI: sessioninadapter.NewCLIHandler(sessionUC),
		Log:        log,
		records:    records,
	}, nil
}

func (a *App) Close() error {
	return a.records.Close()
}

// newNarrator builds the configured backend. A backend that cannot be built
// is replaced by one that fails every call, so the board still opens.
func newNarrator(cfg config.Config, log *zap.Logger) narrativeout.Narrator {
	switch cfg.Narrator.Backend {
	case config.BackendPlugin:
		pluginLog := zap.NewStdLog(log.Named("narrator-plugin")).Writer()
		return narrativeoutadapter.NewPluginNarrator(cfg.Narrator.PluginBinary, pluginLog)
	default:
		narrator, err := narrativeoutadapter.NewLLMNarrator(narrativeoutadapter.LLMConfig{
			BaseURL: cfg.Narrator.BaseURL,
			Model:   cfg.Narrator.Model,
			APIKey:  cfg.Narrator.APIKey,
		})
		if err != nil {
			log.Warn("llm narrator unavailable", zap.Error(err))
			return narrativeoutadapter.NewUnavailableNarrator(config.BackendLLM, err)
		}
		return narrator
	}
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.SessionCLI, app.Config.Leaderboard.RecentDays)
	program := tea.NewProgram(model, tea.WithAltScreen())
	unsubscribe := app.SessionCLI.Subscribe(func(ev sessiondto.Event) {
		program.Send(uiapp.ChangedMsg{Kind: ev.Kind})
	})
	defer unsubscribe()
	_, err := program.Run()
	return err
}
