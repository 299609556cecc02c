package bootstrap

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	analyticsin "flowdash/internal/modules/analytics/port/in"
	analyticsusecase "flowdash/internal/modules/analytics/usecase"
	exportin "flowdash/internal/modules/export/port/in"
	exportusecase "flowdash/internal/modules/export/usecase"
	notifyoutadapter "flowdash/internal/modules/notify/adapter/out"
	notifyin "flowdash/internal/modules/notify/port/in"
	notifyout "flowdash/internal/modules/notify/port/out"
	notifyusecase "flowdash/internal/modules/notify/usecase"
	sessioninadapter "flowdash/internal/modules/session/adapter/in"
	sessionoutadapter "flowdash/internal/modules/session/adapter/out"
	sessionout "flowdash/internal/modules/session/port/out"
	sessionservice "flowdash/internal/modules/session/service"
	sessionusecase "flowdash/internal/modules/session/usecase"
	taginadapter "flowdash/internal/modules/tag/adapter/in"
	tagoutadapter "flowdash/internal/modules/tag/adapter/out"
	tagservice "flowdash/internal/modules/tag/service"
	tagusecase "flowdash/internal/modules/tag/usecase"
	"flowdash/internal/platform/clock"
	"flowdash/internal/platform/config"
	"flowdash/internal/platform/id"
	"flowdash/internal/platform/logging"
	uiapp "flowdash/internal/ui/app"
)

type App struct {
	SessionCLI sessioninadapter.CLIHandler
	TagCLI     taginadapter.CLIHandler
	Analytics  analyticsin.Usecase
	Export     exportin.Usecase
	Notify     notifyin.Usecase
	Log        zerolog.Logger
}

// New wires the full module graph and runs the startup load so callers see a
// ready store. Persistence degradation (bad sqlite file, corrupt JSON) is
// absorbed during load and logged, never returned.
func New(cfg config.Config) (*App, error) {
	clk := clock.SystemClock{}
	ids := id.UUID{}

	log, err := logging.New(cfg.LogPath)
	if err != nil {
		log = logging.Nop()
	}

	tagStore := tagoutadapter.NewFileTagStore(cfg.TagsPath)
	tagUC := tagusecase.NewInteractor(tagservice.NewTagService(clk, ids), tagStore, log)

	var stores []sessionout.SessionStore
	sqliteStore, err := sessionoutadapter.NewSQLiteSessionStore(cfg.DBPath)
	if err != nil {
		log.Warn().Err(err).Msg("sqlite unavailable, json store only")
	} else {
		stores = append(stores, sqliteStore)
	}
	stores = append(stores, sessionoutadapter.NewFileSessionStore(cfg.SessionsPath))

	sessionUC := sessionusecase.NewInteractor(
		sessionservice.NewSessionService(clk, ids),
		stores,
		sessionoutadapter.NewFileMetaStore(cfg.MetaPath),
		sessionoutadapter.NewTagCompleterAdapter(tagUC),
		log,
	)

	ctx := context.Background()
	if err := tagUC.Load(ctx); err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	if err := sessionUC.Load(ctx); err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}

	notifiers := []notifyout.Notifier{
		notifyoutadapter.NewBellNotifier(os.Stdout),
		notifyoutadapter.NewHookRunner(cfg.NotifyPath, log),
	}

	return &App{
		SessionCLI: sessioninadapter.NewCLIHandler(sessionUC),
		TagCLI:     taginadapter.NewCLIHandler(tagUC),
		Analytics:  analyticsusecase.NewInteractor(sessionUC, tagUC, clk),
		Export:     exportusecase.NewInteractor(sessionUC),
		Notify:     notifyusecase.NewInteractor(notifiers, log),
		Log:        log,
	}, nil
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.SessionCLI, app.TagCLI, app.Analytics, app.Export, app.Notify)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
