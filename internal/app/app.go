package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"librarium/internal/catalog"
	"librarium/internal/cli"
	"librarium/internal/config"
	"librarium/internal/storage"
	"librarium/internal/storage/jsonfile"
	"librarium/internal/storage/stubs"
)

// App wires the configuration, storage, catalog and console front-end
// together and owns their lifecycle: construct, load, operate, save, close.
type App struct {
	config  *config.Config
	logger  *zap.Logger
	store   storage.Storage
	catalog *catalog.Catalog
	cli     *cli.Runner
	input   io.ReadCloser
}

// New creates and initializes a new application instance
func New() (*App, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	app := &App{config: cfg, logger: logger}

	if err := app.initStorage(); err != nil {
		return nil, err
	}

	app.catalog = catalog.New(app.store, logger)
	if err := app.catalog.LoadAll(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	app.input = os.Stdin
	app.cli = cli.NewRunner(app.catalog, app.input, os.Stdout, logger)

	return app, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// initStorage selects the backing store
func (a *App) initStorage() error {
	if a.config.UseMemoryStore {
		a.logger.Info("using in-memory store")
		a.store = stubs.NewMemoryStore()
		return nil
	}

	store, err := jsonfile.New(a.config.DataDir, a.logger)
	if err != nil {
		return fmt.Errorf("failed to open data dir: %w", err)
	}
	a.logger.Info("using JSON file store", zap.String("data_dir", a.config.DataDir))
	a.store = store
	return nil
}

// Run starts the console loop and blocks until it finishes or a termination
// signal arrives; either way the catalog is saved before exit. The final
// save happens only after the console loop has stopped, so no mutation can
// race it.
func (a *App) Run() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- a.cli.Run(ctx)
	}()

	select {
	case <-sigChan:
		a.logger.Info("signal received, shutting down")
		cancel()
		// Unblock the pending input read, then wait for the loop to stop
		// before the final save.
		_ = a.input.Close()
		<-done
	case err := <-done:
		if err != nil {
			a.logger.Error("console loop failed", zap.Error(err))
		}
	}

	return a.Shutdown()
}

// Shutdown saves the catalog and closes the store
func (a *App) Shutdown() error {
	ctx := context.Background()
	if err := a.catalog.SaveAll(ctx); err != nil {
		a.logger.Error("final save failed", zap.Error(err))
		return err
	}

	if err := a.store.Close(); err != nil {
		a.logger.Error("error closing store", zap.Error(err))
		return err
	}

	a.logger.Info("shutdown complete")
	_ = a.logger.Sync()
	return nil
}
