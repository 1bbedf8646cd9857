// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/acceleott/acceleott/internal/marketing/demo"
	"github.com/acceleott/acceleott/internal/platform/config"
	"github.com/acceleott/acceleott/internal/platform/database"
	"github.com/acceleott/acceleott/internal/platform/migration"
	pgstore "github.com/acceleott/acceleott/internal/platform/postgres"
	"github.com/acceleott/acceleott/internal/platform/sqlite"
	"github.com/acceleott/acceleott/internal/users/auth"
)

// storage bundles the repositories of whichever backend DATABASE_URL selects.
type storage struct {
	driver   database.Driver
	accounts auth.AccountRepository
	demos    demo.Repository
	ping     func(ctx context.Context) error
	close    func()
}

// openStorage connects to the configured database and brings its schema up to date.
func openStorage(ctx context.Context, cfg *config.Config, log *slog.Logger) (*storage, error) {
	driver, err := database.DetectDriver(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	switch driver {
	case database.DriverPostgres:
		pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, err
		}
		if err := migration.RunPostgres(cfg.DatabaseURL, cfg.MigrationPath, log); err != nil {
			pool.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		return &storage{
			driver:   driver,
			accounts: auth.NewPostgresAccountRepository(pool),
			demos:    demo.NewPostgresRepository(pool),
			ping: func(ctx context.Context) error {
				return pgstore.Ping(ctx, pool)
			},
			close: func() {
				log.Info("closing postgres pool")
				pool.Close()
			},
		}, nil

	default:
		db, err := sqlite.Open(ctx, database.SQLitePath(cfg.DatabaseURL), log)
		if err != nil {
			return nil, err
		}
		if err := migration.RunSQLite(db, cfg.MigrationPath, log); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		return &storage{
			driver:   driver,
			accounts: auth.NewSQLiteAccountRepository(db),
			demos:    demo.NewSQLiteRepository(db),
			ping: func(ctx context.Context) error {
				return sqlite.Ping(ctx, db)
			},
			close: func() {
				log.Info("closing sqlite database")
				if err := db.Close(); err != nil {
					log.Error("sqlite close error", slog.Any("error", err))
				}
			},
		}, nil
	}
}
