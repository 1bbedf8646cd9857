// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

package demo_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/acceleott/acceleott/internal/marketing/demo"
	"github.com/acceleott/acceleott/internal/platform/migration"
	"github.com/acceleott/acceleott/internal/platform/sqlite"
	"github.com/acceleott/acceleott/internal/testsupport"
)

func TestSQLiteRepository(t *testing.T) {
	logger := testsupport.DiscardLogger()

	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "demo.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migration.RunSQLite(db, "", logger))

	runRepositoryContract(t, demo.NewSQLiteRepository(db))
}
