// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

package redis_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisstore "github.com/acceleott/acceleott/internal/platform/redis"
	"github.com/acceleott/acceleott/internal/testsupport"
)

func TestNewClient_RejectsMalformedURL(t *testing.T) {
	_, err := redisstore.NewClient(context.Background(), "memcached://localhost:11211", testsupport.DiscardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse REDIS_URL")
}

/*
TestNewClient_Container connects to a disposable Redis and pings it.
*/
func TestNewClient_Container(t *testing.T) {
	url := testsupport.StartRedis(t)

	client, err := redisstore.NewClient(context.Background(), url, testsupport.DiscardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.NoError(t, redisstore.Ping(context.Background(), client))
}
