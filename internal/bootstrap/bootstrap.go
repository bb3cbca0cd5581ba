package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/go-hclog"

	historyinadapter "pomo/internal/modules/history/adapter/in"
	historyoutadapter "pomo/internal/modules/history/adapter/out"
	historyservice "pomo/internal/modules/history/service"
	historyusecase "pomo/internal/modules/history/usecase"
	timerinadapter "pomo/internal/modules/timer/adapter/in"
	timeroutadapter "pomo/internal/modules/timer/adapter/out"
	timerservice "pomo/internal/modules/timer/service"
	timerusecase "pomo/internal/modules/timer/usecase"
	"pomo/internal/platform/clock"
	"pomo/internal/platform/config"
	"pomo/internal/platform/logging"
	uiapp "pomo/internal/ui/app"
)

type App struct {
	HistoryCLI historyinadapter.CLIHandler
	TimerCLI   timerinadapter.CLIHandler
	TimerTUI   timerinadapter.TUIHandler

	logger hclog.Logger
	store  *historyoutadapter.SQLiteStore
}

func New(cfg config.Config, logger hclog.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	store, err := historyoutadapter.NewSQLiteStore(cfg.DBPath, logger)
	if err != nil {
		return nil, fmt.Errorf("new history store: %w", err)
	}
	historyUC := historyusecase.NewInteractor(
		historyservice.NewHistoryService(clock.SystemClock{}, store, logger),
		historyoutadapter.NewYAMLSettingsFile(),
		historyoutadapter.NewMarkdownReportWriter(),
	)

	bridge := timeroutadapter.NewHistoryBridge(historyUC)
	engine := timerservice.NewEngine(timerservice.EngineOptions{
		TickInterval: cfg.TickInterval,
		EventBuffer:  16,
	}, logger)
	controller := timerservice.NewController(engine, bridge, bridge, timerservice.ControllerOptions{
		RecordAbandoned: cfg.RecordAbandoned,
	}, logger)
	timerUC := timerusecase.NewInteractor(controller)

	return &App{
		HistoryCLI: historyinadapter.NewCLIHandler(historyUC),
		TimerCLI:   timerinadapter.NewCLIHandler(timerUC),
		TimerTUI:   timerinadapter.NewTUIHandler(timerUC),
		logger:     logger,
		store:      store,
	}, nil
}

func (a *App) Close() error {
	if a == nil || a.store == nil {
		return nil
	}
	return a.store.Close()
}

// RunTUI initializes the store, runs the cycle controller for the lifetime
// of the program and blocks until the user quits.
func RunTUI(app *App, statsDays int) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := app.HistoryCLI.Initialize(ctx); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- app.TimerTUI.Run(ctx) }()

	if err := app.TimerTUI.Reload(ctx); err != nil {
		cancel()
		<-done
		return err
	}

	model := uiapp.NewModel(app.TimerTUI, app.HistoryCLI, statsDays)
	out := os.Stdout
	program := tea.NewProgram(model.WithBell(out), tea.WithAltScreen(), tea.WithOutput(out))
	_, runErr := program.Run()

	cancel()
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		app.logger.Error("timer controller stopped", "error", err)
	}
	return runErr
}
