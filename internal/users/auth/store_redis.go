// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

package auth

import (
	"context"
	"fmt"
	"time"

	redisstore "github.com/acceleott/acceleott/internal/platform/redis"
	"github.com/acceleott/acceleott/internal/platform/sec"
)

// RedisResendThrottle implements [ResendThrottle] on a shared Redis cooldown,
// so the limit holds across API replicas.
type RedisResendThrottle struct {
	cooldown *redisstore.Cooldown
}

// NewResendThrottle creates a Redis-backed [ResendThrottle].
func NewResendThrottle(cooldown *redisstore.Cooldown) *RedisResendThrottle {
	return &RedisResendThrottle{cooldown: cooldown}
}

// Allow implements [ResendThrottle]. Keys are hashed so addresses never land in Redis.
func (throttle *RedisResendThrottle) Allow(context context.Context, email string) (bool, time.Duration, error) {
	allowed, remaining, err := throttle.cooldown.Acquire(context, sec.HashToken(email))
	if err != nil {
		return false, 0, fmt.Errorf("redis_resend_throttle_allow_failed: %w", err)
	}
	return allowed, remaining, nil
}

// Reset implements [ResendThrottle].
func (throttle *RedisResendThrottle) Reset(context context.Context, email string) error {
	if err := throttle.cooldown.Release(context, sec.HashToken(email)); err != nil {
		return fmt.Errorf("redis_resend_throttle_reset_failed: %w", err)
	}
	return nil
}
