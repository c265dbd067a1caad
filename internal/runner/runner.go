package runner

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/yigit/castor/internal/app/catalog"
	"github.com/yigit/castor/internal/bootstrap"
	"github.com/yigit/castor/internal/config"
	"github.com/yigit/castor/internal/seed"
)

// Runner holds the state shared by the CLI commands.
type Runner struct {
	config *config.Config
	store  *bootstrap.Store
	logger zerolog.Logger
	client *http.Client
}

// New loads the configuration, sets up logging to logOut and opens the store.
func New(configPath string, logOut io.Writer) (*Runner, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath, logOut)
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	store, err := bootstrap.OpenStore(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	return &Runner{
		config: cfg,
		store:  store,
		logger: lgr,
	}, nil
}

// WithHTTPClient replaces the client used to fetch the catalog
func (r *Runner) WithHTTPClient(client *http.Client) *Runner {
	r.client = client
	return r
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// Scrape runs one reconciliation and writes the report to w.
func (r *Runner) Scrape(ctx context.Context, w io.Writer) (*catalog.Result, error) {
	ctx, stop := signalContext(ctx)
	defer stop()

	reconciler, err := bootstrap.BuildReconciler(r.config, r.store, r.client, r.logger)
	if err != nil {
		return nil, err
	}

	res, err := reconciler.Run(ctx)
	if err != nil {
		return nil, err
	}

	if err := catalog.WriteReport(w, res, r.config.ReportLocation()); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	return res, nil
}

// Migrate brings the store schema up to date.
func (r *Runner) Migrate(ctx context.Context) error {
	ctx, stop := signalContext(ctx)
	defer stop()

	return r.store.Migrate(ctx)
}

// Seed loads a YAML fixture into the store.
func (r *Runner) Seed(ctx context.Context, fixturePath string) error {
	ctx, stop := signalContext(ctx)
	defer stop()

	fixture, err := seed.LoadFixture(fixturePath)
	if err != nil {
		return err
	}
	return seed.Apply(ctx, r.store.Courses, fixture, r.logger)
}

// Close releases the store.
func (r *Runner) Close() error {
	if r.store == nil {
		return nil
	}
	if err := r.store.Close(); err != nil {
		r.logger.Error().Err(err).Msg("Failed to close database")
		return err
	}
	r.logger.Debug().Msg("Database closed.")
	return nil
}
