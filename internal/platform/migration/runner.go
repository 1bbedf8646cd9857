// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

// Package migration provides a thin wrapper around golang-migrate for
// running database schema migrations.
//
// # Architecture
//
// Migrations are embedded in the binary, one directory per backend. Setting
// MIGRATION_PATH swaps the embedded set for a directory on disk. Schema state
// is brought up to date during startup, before traffic is served.
package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	// pgx5 driver registers the "pgx5" scheme for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"

	"github.com/acceleott/acceleott/internal/platform/database"
)

//go:embed sql
var embedded embed.FS

// RunPostgres applies all pending UP migrations to the database at dsn.
//
// # Parameters
//   - dsn: A postgres:// URL.
//   - overridePath: Optional directory replacing the embedded migrations.
//   - logger: Structured logger for migration events.
func RunPostgres(dsn, overridePath string, logger *slog.Logger) error {
	sourceName, sourceDriver, err := openSource(database.DriverPostgres, overridePath)
	if err != nil {
		return err
	}

	migrator, err := migrate.NewWithSourceInstance(sourceName, sourceDriver, convertToPgx5DSN(dsn))
	if err != nil {
		_ = sourceDriver.Close()
		return fmt.Errorf("migration: failed to initialize: %w", err)
	}
	defer func() {
		sourceError, dbError := migrator.Close()
		if sourceError != nil {
			logger.Error("migration_source_close_failed", slog.Any("error", sourceError))
		}
		if dbError != nil {
			logger.Error("migration_db_close_failed", slog.Any("error", dbError))
		}
	}()

	return up(migrator, logger)
}

// RunSQLite applies all pending UP migrations through an open SQLite handle.
//
// The migrator is not closed on return: its database driver owns db and
// closing it would close the caller's handle.
func RunSQLite(db *sql.DB, overridePath string, logger *slog.Logger) error {
	sourceName, sourceDriver, err := openSource(database.DriverSQLite, overridePath)
	if err != nil {
		return err
	}
	defer func() {
		if err := sourceDriver.Close(); err != nil {
			logger.Error("migration_source_close_failed", slog.Any("error", err))
		}
	}()

	databaseDriver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("migration: failed to wrap sqlite handle: %w", err)
	}

	migrator, err := migrate.NewWithInstance(sourceName, sourceDriver, string(database.DriverSQLite), databaseDriver)
	if err != nil {
		return fmt.Errorf("migration: failed to initialize: %w", err)
	}

	return up(migrator, logger)
}

// openSource picks the embedded directory for driver, or overridePath when set.
func openSource(driver database.Driver, overridePath string) (string, source.Driver, error) {
	if overridePath != "" {
		sourceDriver, err := (&file.File{}).Open("file://" + overridePath)
		if err != nil {
			return "", nil, fmt.Errorf("migration: failed to open %s: %w", overridePath, err)
		}
		return "file", sourceDriver, nil
	}

	sourceDriver, err := iofs.New(embedded, "sql/"+string(driver))
	if err != nil {
		return "", nil, fmt.Errorf("migration: failed to open embedded migrations: %w", err)
	}
	return "iofs", sourceDriver, nil
}

// up runs the migrator and logs the version transition.
func up(migrator *migrate.Migrate, logger *slog.Logger) error {
	migrator.Log = &migrateLogger{logger: logger}

	currentVersion, isDirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration: failed to get current version: %w", err)
	}

	if isDirty {
		return fmt.Errorf("migration: database is in a dirty state at version %d (manual intervention required)", currentVersion)
	}

	logger.Info("migration_started", slog.Int("current_version", int(currentVersion)))

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("migration_already_up_to_date")
			return nil
		}
		return fmt.Errorf("migration: up failed: %w", err)
	}

	newVersion, _, _ := migrator.Version()
	logger.Info("migration_successful",
		slog.Int("from_version", int(currentVersion)),
		slog.Int("to_version", int(newVersion)),
	)

	return nil
}

// convertToPgx5DSN rewrites postgres:// and postgresql:// to the pgx5:// scheme
// golang-migrate registers for pgx/v5.
func convertToPgx5DSN(dsn string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}

// migrateLogger adapts golang-migrate's logger interface to slog.
type migrateLogger struct {
	logger  *slog.Logger
	verbose bool
}

// Printf implements migrate.Logger.
func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Verbose implements migrate.Logger.
func (l *migrateLogger) Verbose() bool {
	return l.verbose
}
