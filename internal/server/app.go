// Package server wires the dailyword backend together: storage, the
// scripture provider session, the version and passage services, and the
// gRPC endpoint.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/dailyword/internal/logging"
	"github.com/dmitrijs2005/dailyword/internal/server/bibleapi"
	"github.com/dmitrijs2005/dailyword/internal/server/config"
	"github.com/dmitrijs2005/dailyword/internal/server/notify"
	"github.com/dmitrijs2005/dailyword/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/dailyword/internal/server/services"

	gs "github.com/dmitrijs2005/dailyword/internal/server/grpc"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	versionService *services.VersionService
	passageService *services.PassageService
}

// NewApp connects to the database, migrates it, and loads the licensed
// versions. It fails when the provider cannot be reached or no version is
// licensed.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	client := bibleapi.NewClient(c.BibleAPIBaseURL, c.BibleAPITimeout)
	authenticator := bibleapi.NewAuthenticator(client, c.BibleAPIUsername, c.BibleAPIPassword, c.CredentialRefreshWindow, logger)
	session := bibleapi.NewSession(client, authenticator)

	notifier := notify.New(c.WarningWebhookURL, c.BibleAPITimeout, logger)

	directory := services.NewDirectory(session, logger)
	reconciler := services.NewReconciler(db, rm, bibleapi.ServiceName, notifier, logger)

	vs, err := services.StartVersionService(ctx, db, rm, directory, reconciler, session, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("versions init error: %w", err)
	}

	ps := services.NewPassageService(db, rm, session, vs, logger)

	return &App{config: c, logger: logger, db: db, versionService: vs, passageService: ps}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.versionService, app.passageService, app.config.SecretKey)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
}
