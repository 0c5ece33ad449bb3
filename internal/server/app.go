// Package server wires the contacts service together: configuration,
// logging, the PostgreSQL pool and migrations, the event bus, export
// storage, services and the HTTP server. It also owns graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/contactshare/internal/logging"
	"github.com/dmitrijs2005/contactshare/internal/server/config"
	"github.com/dmitrijs2005/contactshare/internal/server/events"
	"github.com/dmitrijs2005/contactshare/internal/server/exportstore"
	"github.com/dmitrijs2005/contactshare/internal/server/httpapi"
	"github.com/dmitrijs2005/contactshare/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/contactshare/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	bus    events.Bus
	http   *httpapi.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogBackend, os.Stdout)
	if err != nil {
		return nil, err
	}

	if c.UsesDefaultSecret() {
		logger.Warn(ctx, "JWT secret not configured, using the insecure development key")
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	bus, err := newBus(ctx, c, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	store, err := newExportStore(ctx, c)
	if err != nil {
		_ = bus.Close()
		_ = db.Close()
		return nil, err
	}

	userService := services.NewUserService(db, rm, c, logger)
	groupService := services.NewGroupService(db, rm, bus, logger)
	contactService := services.NewContactService(db, rm, bus, logger)
	transferService := services.NewTransferService(db, rm, store, bus, logger)
	guard := services.NewGuard(db, rm)

	srv := httpapi.NewServer(httpapi.Options{
		Address:         c.HTTPAddr,
		SecretKey:       []byte(c.SecretKey),
		SessionValidity: c.SessionValidity,
		SecureCookies:   c.Production,
		AllowedOrigins:  c.AllowedOrigins,
		MaxUploadBytes:  c.MaxUploadBytes,
	}, logger, userService, groupService, contactService, transferService, guard, bus)

	return &App{config: c, logger: logger, db: db, bus: bus, http: srv}, nil
}

// newBus picks Redis Pub/Sub when configured and the in-process bus
// otherwise.
func newBus(ctx context.Context, c *config.Config, logger logging.Logger) (events.Bus, error) {
	if c.RedisURL == "" {
		return events.NewMemoryBus(), nil
	}
	bus, err := events.NewRedisBus(ctx, c.RedisURL, logger)
	if err != nil {
		return nil, fmt.Errorf("event bus init error: %w", err)
	}
	return bus, nil
}

// newExportStore returns nil when no bucket is configured, which disables
// export links.
func newExportStore(ctx context.Context, c *config.Config) (exportstore.Store, error) {
	if !c.ExportLinksEnabled() {
		return nil, nil
	}
	store, err := exportstore.NewS3Store(ctx, exportstore.Config{
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
	})
	if err != nil {
		return nil, fmt.Errorf("export store init error: %w", err)
	}
	return store, nil
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

// Run serves until a termination signal arrives or the server fails, then
// releases the bus and the database.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	err := app.http.Run(ctx)
	if err != nil {
		app.logger.Error(ctx, "http server error", "error", err)
	}

	if cerr := app.bus.Close(); cerr != nil {
		app.logger.Warn(ctx, "event bus close error", "error", cerr)
	}
	if cerr := app.db.Close(); cerr != nil {
		app.logger.Warn(ctx, "db close error", "error", cerr)
	}

	app.logger.Info(ctx, "App stopped")
	// stdout is not always syncable (e.g. a terminal), so the result is ignored.
	_ = logging.Sync(app.logger)
	return err
}
