package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blog-platform-api/internal/config"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

const pingTimeout = 5 * time.Second

// DB is the blog's Postgres pool plus the schema tooling bound to it
type DB struct {
	*sql.DB
	log zerolog.Logger
}

// New opens the pool described by cfg and fails fast when Postgres is unreachable
func New(cfg *config.DatabaseConfig, log zerolog.Logger) (*DB, error) {
	pool, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	configurePool(pool, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("reach postgres at %s: %w", cfg.Host, err)
	}

	db := Wrap(pool, log)
	db.log.Info().
		Str("host", cfg.Host).
		Str("database", cfg.Name).
		Int("max_open_conns", cfg.MaxOpenConns).
		Int("max_idle_conns", cfg.MaxIdleConns).
		Dur("max_lifetime", cfg.MaxLifetime).
		Msg("Postgres pool ready")
	return db, nil
}

func configurePool(pool *sql.DB, cfg *config.DatabaseConfig) {
	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(cfg.MaxLifetime)
	pool.SetConnMaxIdleTime(cfg.IdleTimeout)
}

// Wrap adopts an already opened *sql.DB
func Wrap(pool *sql.DB, log zerolog.Logger) *DB {
	return &DB{DB: pool, log: log.With().Str("component", "database").Logger()}
}

// RunMigrations applies every pending schema migration
func (db *DB) RunMigrations(migrationsPath string) error {
	return db.migrate(migrationsPath, "up", (*migrate.Migrate).Up)
}

// MigrateDown reverts the most recent schema migration
func (db *DB) MigrateDown(migrationsPath string) error {
	return db.migrate(migrationsPath, "down", func(m *migrate.Migrate) error {
		return m.Steps(-1)
	})
}

// migrate runs step against the schema and logs the resulting version.
// A step with nothing to do is not an error.
func (db *DB) migrate(migrationsPath, direction string, step func(*migrate.Migrate) error) error {
	source := migrationSource(migrationsPath)
	log := db.log.With().Str("source", source).Str("direction", direction).Logger()
	log.Info().Msg("Migrating schema")

	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("migrate %s: postgres driver: %w", direction, err)
	}
	m, err := migrate.NewWithDatabaseInstance(source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migrate %s: load %s: %w", direction, source, err)
	}

	if err := step(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate %s: %w", direction, err)
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		log.Info().Msg("Schema is empty")
	case err != nil:
		return fmt.Errorf("migrate %s: read version: %w", direction, err)
	default:
		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Schema migrated")
	}
	return nil
}

// migrationSource turns a directory into a golang-migrate source URL.
// Values that already carry a scheme are passed through.
func migrationSource(path string) string {
	if strings.Contains(path, "://") {
		return path
	}
	return "file://" + path
}

// WithTx runs fn inside a transaction on this pool
func (db *DB) WithTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	return WithTx(ctx, db.DB, nil, fn)
}

// HealthCheck pings Postgres
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.PingContext(ctx)
}
