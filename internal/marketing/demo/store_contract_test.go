// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

package demo_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acceleott/acceleott/internal/marketing/demo"
	"github.com/acceleott/acceleott/pkg/uuid"
)

func runRepositoryContract(t *testing.T, repository demo.Repository) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	for index := range 3 {
		require.NoError(t, repository.Create(ctx, &demo.Request{
			ID:          uuid.New(),
			Name:        fmt.Sprintf("Visitor %d", index),
			Email:       fmt.Sprintf("visitor%d@example.com", index),
			Contact:     "+12025550123",
			Designation: demo.DefaultDesignation,
			CreatedAt:   base.Add(time.Duration(index) * time.Minute),
		}))
	}

	page, total, err := repository.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, "Visitor 2", page[0].Name, "newest first")
	assert.True(t, base.Add(2*time.Minute).Equal(page[0].CreatedAt))

	page, total, err = repository.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, "Visitor 0", page[0].Name)

	page, total, err = repository.List(ctx, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Empty(t, page)
}
