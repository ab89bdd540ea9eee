// Package server wires configuration, storage, services and the gRPC
// transport together and runs them until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/safevault/internal/logging"
	"github.com/dmitrijs2005/safevault/internal/server/audit"
	"github.com/dmitrijs2005/safevault/internal/server/auth"
	"github.com/dmitrijs2005/safevault/internal/server/config"
	"github.com/dmitrijs2005/safevault/internal/server/passwords"
	"github.com/dmitrijs2005/safevault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/safevault/internal/server/services"

	gs "github.com/dmitrijs2005/safevault/internal/server/grpc"
)

var (
	openDB = func(dsn string) (*sql.DB, error) {
		return sql.Open("pgx", dsn)
	}

	newAuditRecorder = func(ctx context.Context, c audit.S3Config) (audit.Recorder, error) {
		r, err := audit.NewS3Recorder(ctx, c)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	issuer      *auth.Issuer
	userService *services.UserService
}

func NewApp(ctx context.Context, c *config.Config, logOut io.Writer) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger := logging.NewJSONLogger(logOut, c.LogLevel)
	app := &App{config: c, logger: logger}

	if c.InMemory {
		logger.Warn(ctx, "using in-memory user store; data is lost on exit")
		app.repomanager = repomanager.NewMemoryRepositoryManager()
	} else {
		db, err := openDB(c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("db ping error: %w", err)
		}
		app.db = db

		m := repomanager.NewPostgresRepositoryManager(db)
		if err := m.RunMigrations(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
		app.repomanager = m
	}

	hasher, err := passwords.NewHasher(c.BcryptCost)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("hasher: %w", err)
	}

	app.issuer = auth.NewIssuer([]byte(c.SecretKey), c.TokenIssuer, c.TokenAudience, c.TokenTTL)

	var recorder audit.Recorder = audit.Nop{}
	if c.S3Bucket != "" {
		recorder, err = newAuditRecorder(ctx, audit.S3Config{
			Region:    c.S3Region,
			Endpoint:  c.S3BaseEndpoint,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Bucket:    c.S3Bucket,
		})
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("audit: %w", err)
		}
	}

	app.userService = services.NewUserService(app.repomanager, hasher, app.issuer, c.LockoutPolicy(), recorder, logger)

	if c.SeedUsersFile != "" {
		n, err := app.userService.SeedFromFile(ctx, c.SeedUsersFile)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("seed users: %w", err)
		}
		logger.Info(ctx, "seed users loaded", "created", n, "file", c.SeedUsersFile)
	}

	return app, nil
}

// Run serves gRPC until ctx is cancelled or SIGINT, SIGTERM or SIGQUIT
// arrives, then closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.issuer)
	runErr := s.Run(ctx)
	if runErr != nil {
		app.logger.Error(ctx, "grpc server stopped", "error", runErr)
	}

	return errors.Join(runErr, app.Close())
}

// Close releases the database, if any. It is safe to call more than once.
func (app *App) Close() error {
	if app.db == nil {
		return nil
	}
	err := app.db.Close()
	app.db = nil
	return err
}
