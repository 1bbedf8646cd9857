// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

// Package testsupport starts throwaway PostgreSQL and Redis containers for
// integration tests. Tests using it are skipped under -short or when no
// container runtime is reachable.
package testsupport

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const startupTimeout = 90 * time.Second

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// StartPostgres runs postgres:16-alpine and returns its connection URL.
func StartPostgres(t *testing.T) string {
	t.Helper()

	host, port := start(t, testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "acceleott",
			"POSTGRES_PASSWORD": "acceleott",
			"POSTGRES_DB":       "acceleott",
		},
		// The entrypoint restarts the server once after initdb.
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(startupTimeout),
	}, "5432")

	return fmt.Sprintf("postgres://acceleott:acceleott@%s:%s/acceleott?sslmode=disable", host, port)
}

// StartRedis runs redis:7-alpine and returns its connection URL.
func StartRedis(t *testing.T) string {
	t.Helper()

	host, port := start(t, testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor: wait.ForListeningPort("6379/tcp").
			WithStartupTimeout(startupTimeout),
	}, "6379")

	return fmt.Sprintf("redis://%s:%s/0", host, port)
}

func start(t *testing.T, request testcontainers.ContainerRequest, containerPort string) (string, string) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container test in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: request,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, nat.Port(containerPort))
	require.NoError(t, err)

	return host, mappedPort.Port()
}
