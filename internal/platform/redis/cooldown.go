// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

package redis

import (
	stdctx "context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cooldown grants at most one action per key per window, across all API replicas.
type Cooldown struct {
	client *redis.Client
	prefix string
	window time.Duration
}

// NewCooldown creates a [Cooldown] storing its keys under prefix.
func NewCooldown(client *redis.Client, prefix string, window time.Duration) *Cooldown {
	return &Cooldown{client: client, prefix: prefix, window: window}
}

/*
Acquire claims the window for key.

Returns:
  - bool: true when the caller may proceed
  - time.Duration: remaining wait when refused
  - error: connectivity errors
*/
func (cooldown *Cooldown) Acquire(context stdctx.Context, key string) (bool, time.Duration, error) {
	fullKey := cooldown.prefix + key

	acquired, err := cooldown.client.SetNX(context, fullKey, time.Now().Unix(), cooldown.window).Result()
	if err != nil {
		return false, 0, fmt.Errorf("redis_cooldown_acquire_failed: %w", err)
	}
	if acquired {
		return true, 0, nil
	}

	remaining, err := cooldown.client.PTTL(context, fullKey).Result()
	if err != nil {
		return false, 0, fmt.Errorf("redis_cooldown_ttl_failed: %w", err)
	}
	if remaining < 0 {
		remaining = cooldown.window
	}

	return false, remaining, nil
}

// Release drops the claim on key so a failed action can be retried at once.
func (cooldown *Cooldown) Release(context stdctx.Context, key string) error {
	if err := cooldown.client.Del(context, cooldown.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis_cooldown_release_failed: %w", err)
	}
	return nil
}
