// Package server bootstraps the Kanban backend. It decrypts the configured
// secrets, opens the datasource, applies migrations, builds the services and
// runs the HTTP API and the gRPC health server until a signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/julianrazif/kanban-mono-repo/internal/logging"
	"github.com/julianrazif/kanban-mono-repo/internal/server/auth"
	"github.com/julianrazif/kanban-mono-repo/internal/server/config"
	"github.com/julianrazif/kanban-mono-repo/internal/server/datasource"
	"github.com/julianrazif/kanban-mono-repo/internal/server/httpapi"
	"github.com/julianrazif/kanban-mono-repo/internal/server/repositories/repomanager"
	"github.com/julianrazif/kanban-mono-repo/internal/server/secrets"
	"github.com/julianrazif/kanban-mono-repo/internal/server/services"

	gs "github.com/julianrazif/kanban-mono-repo/internal/server/grpc"
)

var (
	openDatasource = datasource.Open

	newRepositoryManager = func() repomanager.RepositoryManager {
		return repomanager.NewPostgresRepositoryManager()
	}
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	handler *httpapi.Handler
	filter  *auth.Filter
}

// NewApp runs the startup sequence. Any *common.InitializationError it
// returns means the process must not serve traffic.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	sec := secrets.NewService(c.EncryptionPassword, c.MaskPassword, c.MaskIterations)

	db, err := openDatasource(ctx, c, sec, logger.With("module", "datasource"))
	if err != nil {
		return nil, err
	}

	rm := newRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	tokens, err := auth.NewTokenCodec(c.JWTSecret, sec)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	boards := services.NewBoardService(db, rm)
	handler := httpapi.NewHandler(
		services.NewUserService(db, rm, tokens, c.JWTExpiration),
		boards,
		services.NewColumnService(db, rm),
		services.NewCardService(db, rm),
		services.NewSnapshotService(boards, c),
		logger,
	)
	filter := auth.NewFilter(tokens, logger, func(w http.ResponseWriter, _ *http.Request, err error) {
		httpapi.WriteError(w, err)
	})

	return &App{config: c, logger: logger, db: db, handler: handler, filter: filter}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	router := httpapi.NewRouter(app.handler, app.filter, app.logger)
	s := httpapi.NewServer(app.config.HTTPAddress, router, app.config.ShutdownTimeout, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.GRPCAddress, app.logger)
	s.SetServing()
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until a termination signal arrives or a server fails, then
// waits for both servers to stop and closes the pool.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
