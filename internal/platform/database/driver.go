// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

// Package database selects the relational backend from DATABASE_URL.
//
// PostgreSQL serves production; SQLite backs local development and the
// in-process store tests.
package database

import (
	"fmt"
	"strings"
)

// Driver names a supported relational backend.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

const sqlitePrefix = "sqlite://"

// DetectDriver maps a DATABASE_URL scheme to a [Driver].
func DetectDriver(databaseURL string) (Driver, error) {
	lower := strings.ToLower(strings.TrimSpace(databaseURL))

	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return DriverPostgres, nil
	case strings.HasPrefix(lower, sqlitePrefix):
		return DriverSQLite, nil
	default:
		return "", fmt.Errorf("database: unsupported DATABASE_URL scheme (want postgres:// or sqlite://)")
	}
}

// SQLitePath returns the filesystem path of a sqlite:// URL.
func SQLitePath(databaseURL string) string {
	trimmed := strings.TrimSpace(databaseURL)
	if len(trimmed) >= len(sqlitePrefix) && strings.EqualFold(trimmed[:len(sqlitePrefix)], sqlitePrefix) {
		return trimmed[len(sqlitePrefix):]
	}
	return trimmed
}
