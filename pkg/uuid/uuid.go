// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

/*
Package uuid generates the primary keys used by every Acceleott table.

Identifiers are Version 7 UUIDs: they sort by creation time, which keeps
B-tree inserts append-only in PostgreSQL and lets SQLite order by key.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
func New() string {
	id, err := uuid.NewV7()

	// entropy failure is an unrecoverable system-level error
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}

	return id.String()
}

// IsValid reports whether value parses as a UUID of any version.
func IsValid(value string) bool {
	return uuid.Validate(value) == nil
}
