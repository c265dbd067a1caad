package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/yigit/castor/internal/app/catalog"
	appMigrations "github.com/yigit/castor/internal/app/migrations"
	appRepos "github.com/yigit/castor/internal/app/repositories"
	"github.com/yigit/castor/internal/config"
	"github.com/yigit/castor/internal/db"
	"github.com/yigit/castor/internal/pkg/logger"
)

// Store is an opened course database of either driver
type Store struct {
	Courses appRepos.CourseStore

	driver string
	pg     *db.PostgresDB
	sqlite *sql.DB
	logger zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
// Logs go to out so that stdout stays free for the report.
func LoadConfigAndSetupLogger(configPath string, out io.Writer) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.ConfigFrom(cfg.Logging.Level, cfg.Logging.Format, out))
	lgr.Debug().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// OpenStore connects to the configured database without changing its schema.
func OpenStore(cfg *config.Config, lgr zerolog.Logger) (*Store, error) {
	store := &Store{driver: cfg.Database.Driver, logger: lgr}

	switch cfg.Database.Driver {
	case config.DriverSQLite:
		lgr.Debug().Str("path", cfg.Database.Path).Msg("Opening SQLite database...")
		database, err := db.OpenSQLite(cfg.Database.Path)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to open SQLite database")
			return nil, err
		}
		store.sqlite = database
		store.Courses = appRepos.NewSQLiteCourseRepository(database)
	default:
		lgr.Debug().Str("host", cfg.Database.Host).Str("dbname", cfg.Database.DBName).Msg("Establishing database connection...")
		database, err := db.NewPostgresDB(cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, err
		}
		store.pg = database
		store.Courses = appRepos.NewCourseRepository(database)
	}

	return store, nil
}

// Migrate brings the schema up to date: embedded migrations on Postgres, the
// bundled schema on SQLite.
func (s *Store) Migrate(ctx context.Context) error {
	if s.sqlite != nil {
		if err := db.EnsureSQLiteSchema(ctx, s.sqlite); err != nil {
			return err
		}
		s.logger.Info().Msg("SQLite schema is up to date.")
		return nil
	}

	s.logger.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(s.pg.Pool, s.logger)
	if err := migrator.Migrate(ctx, appMigrations.Files()); err != nil {
		s.logger.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	s.logger.Info().Msg("Database migrations successfully applied.")
	return nil
}

// Close releases the underlying connections
func (s *Store) Close() error {
	if s.sqlite != nil {
		return s.sqlite.Close()
	}
	if s.pg != nil {
		s.pg.Close()
	}
	return nil
}

// BuildReconciler wires the catalog fetcher and the store into a reconciler.
func BuildReconciler(cfg *config.Config, store *Store, client *http.Client, lgr zerolog.Logger) (*catalog.Reconciler, error) {
	rules, err := catalog.NewRules(cfg.Catalog)
	if err != nil {
		return nil, err
	}

	fetcher := catalog.NewFetcher(cfg.Catalog, client)
	return catalog.NewReconciler(rules, fetcher, store.Courses, lgr), nil
}
