package bootstrap

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/go-hclog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapio"

	integrationinadapter "roidash/internal/modules/integration/adapter/in"
	integrationoutadapter "roidash/internal/modules/integration/adapter/out"
	integrationservice "roidash/internal/modules/integration/service"
	integrationusecase "roidash/internal/modules/integration/usecase"
	reportinadapter "roidash/internal/modules/report/adapter/in"
	reportoutadapter "roidash/internal/modules/report/adapter/out"
	reportusecase "roidash/internal/modules/report/usecase"
	wizardinadapter "roidash/internal/modules/wizard/adapter/in"
	wizardoutadapter "roidash/internal/modules/wizard/adapter/out"
	wizardout "roidash/internal/modules/wizard/port/out"
	wizardservice "roidash/internal/modules/wizard/service"
	wizardusecase "roidash/internal/modules/wizard/usecase"
	"roidash/internal/platform/clock"
	"roidash/internal/platform/config"
	"roidash/internal/platform/id"
	uiapp "roidash/internal/ui/app"
)

type App struct {
	Config         config.Config
	Logger         *zap.Logger
	WizardCLI      wizardinadapter.CLIHandler
	IntegrationCLI integrationinadapter.CLIHandler
	ReportCLI      reportinadapter.CLIHandler

	closers []func() error
}

// New wires every module around one session store. The caller owns logger
// and must Close the App.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	clk := clock.SystemClock{}
	ids := id.UUID{}
	app := &App{Config: cfg, Logger: logger}

	slot, err := newSlot(cfg, app)
	if err != nil {
		return nil, err
	}
	store := wizardservice.NewStore(ctx, slot, logger.Named("store"))
	wizardUC := wizardusecase.NewInteractor(store, clk, ids, logger.Named("wizard"))

	hostLog := &zapio.Writer{Log: logger.Named("connector"), Level: zap.DebugLevel}
	app.closers = append(app.closers, hostLog.Close)
	connectors := integrationservice.NewConnectorService(
		integrationoutadapter.NewFileManifestStore(cfg.DataDir),
		integrationoutadapter.NewGRPCHost(hclog.New(&hclog.LoggerOptions{
			Name:   "connector-host",
			Level:  hclog.LevelFromString(cfg.Log.Level),
			Output: hostLog,
		})),
		logger.Named("connectors"),
	)
	integrationUC := integrationusecase.NewInteractor(store, connectors, integrationservice.SyncSettings{
		AuthDelay: cfg.Sync.AuthDelay,
		Interval:  cfg.Sync.Interval,
		Step:      cfg.Sync.Step,
	}, logger.Named("integration"))

	reportUC := reportusecase.NewInteractor(store, reportoutadapter.NewExporter, clk, ids, logger.Named("report"))

	app.WizardCLI = wizardinadapter.NewCLIHandler(wizardUC)
	app.IntegrationCLI = integrationinadapter.NewCLIHandler(integrationUC)
	app.ReportCLI = reportinadapter.NewCLIHandler(reportUC)
	return app, nil
}

func newSlot(cfg config.Config, app *App) (wizardout.Slot, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		slot, err := wizardoutadapter.NewSQLiteSlot(cfg.Storage.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite slot: %w", err)
		}
		app.closers = append(app.closers, slot.Close)
		return slot, nil
	case config.BackendFile, "":
		return wizardoutadapter.NewFileSlot(cfg.DataDir), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.Storage.Backend)
	}
}

// Close releases the storage backend and flushes the connector log bridge.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// RunTUI runs the wizard until the user quits. Reports are exported to
// exportDir.
func RunTUI(ctx context.Context, app *App, exportDir string) error {
	model := uiapp.NewModel(
		clock.Today(clock.SystemClock{}),
		exportDir,
		app.WizardCLI,
		app.IntegrationCLI,
		app.ReportCLI,
	)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
