// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acceleott/acceleott/internal/platform/sec"
	"github.com/acceleott/acceleott/internal/users/auth"
	"github.com/acceleott/acceleott/pkg/pointer"
	"github.com/acceleott/acceleott/pkg/uuid"
)

func pendingAccount(email string, expiresAt time.Time) *auth.Account {
	hash := sec.HashToken("raw-" + email)
	return &auth.Account{
		ID:                   uuid.New(),
		Name:                 "Ada Lovelace",
		Email:                email,
		PasswordHash:         "$2a$12$placeholder",
		Phone:                pointer.To("+4915112345678"),
		Source:               pointer.To("Newsletter"),
		VerifyTokenHash:      &hash,
		VerifyTokenExpiresAt: &expiresAt,
		CreatedAt:            time.Date(2026, 3, 1, 12, 0, 0, 123_000_000, time.UTC),
	}
}

/*
runRepositoryContract exercises every [auth.AccountRepository] guarantee
against a real database.
*/
func runRepositoryContract(t *testing.T, repository auth.AccountRepository) {
	ctx := context.Background()
	expiresAt := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	t.Run("create_and_find", func(t *testing.T) {
		account := pendingAccount("find@example.com", expiresAt)
		require.NoError(t, repository.Create(ctx, account))

		byID, err := repository.FindByID(ctx, account.ID)
		require.NoError(t, err)
		assert.Equal(t, account.Email, byID.Email)
		assert.Equal(t, "+4915112345678", *byID.Phone)
		assert.Nil(t, byID.Occupation)
		assert.False(t, byID.EmailVerified)
		assert.True(t, account.CreatedAt.Equal(byID.CreatedAt))
		require.NotNil(t, byID.VerifyTokenExpiresAt)
		assert.True(t, expiresAt.Equal(*byID.VerifyTokenExpiresAt))

		byEmail, err := repository.FindByEmail(ctx, "find@example.com")
		require.NoError(t, err)
		assert.Equal(t, account.ID, byEmail.ID)

		byToken, err := repository.FindByVerifyTokenHash(ctx, *account.VerifyTokenHash)
		require.NoError(t, err)
		assert.Equal(t, account.ID, byToken.ID)
	})

	t.Run("not_found", func(t *testing.T) {
		_, err := repository.FindByEmail(ctx, "missing@example.com")
		assert.ErrorIs(t, err, auth.ErrAccountNotFound)

		_, err = repository.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, auth.ErrAccountNotFound)

		_, err = repository.FindByVerifyTokenHash(ctx, sec.HashToken("nothing"))
		assert.ErrorIs(t, err, auth.ErrAccountNotFound)
	})

	t.Run("duplicate_email", func(t *testing.T) {
		require.NoError(t, repository.Create(ctx, pendingAccount("dup@example.com", expiresAt)))

		second := pendingAccount("dup@example.com", expiresAt)
		second.VerifyTokenHash = pointer.To(sec.HashToken("another"))
		assert.ErrorIs(t, repository.Create(ctx, second), auth.ErrEmailTaken)
	})

	t.Run("concurrent_duplicate_email", func(t *testing.T) {
		const writers = 5
		errs := make(chan error, writers)

		var wg sync.WaitGroup
		for range writers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				account := pendingAccount("race@example.com", expiresAt)
				account.VerifyTokenHash = pointer.To(sec.HashToken(account.ID))
				errs <- repository.Create(ctx, account)
			}()
		}
		wg.Wait()
		close(errs)

		created := 0
		for err := range errs {
			if err == nil {
				created++
				continue
			}
			assert.ErrorIs(t, err, auth.ErrEmailTaken)
		}
		assert.Equal(t, 1, created)
	})

	t.Run("replace_token", func(t *testing.T) {
		account := pendingAccount("rotate@example.com", expiresAt)
		require.NoError(t, repository.Create(ctx, account))

		newHash := sec.HashToken("rotated")
		newExpiry := expiresAt.Add(time.Hour)
		require.NoError(t, repository.SetVerifyToken(ctx, account.ID, newHash, newExpiry))

		_, err := repository.FindByVerifyTokenHash(ctx, *account.VerifyTokenHash)
		assert.ErrorIs(t, err, auth.ErrAccountNotFound, "old link must stop resolving")

		found, err := repository.FindByVerifyTokenHash(ctx, newHash)
		require.NoError(t, err)
		assert.True(t, newExpiry.Equal(*found.VerifyTokenExpiresAt))

		assert.ErrorIs(t, repository.MarkVerified(ctx, account.ID, *account.VerifyTokenHash), auth.ErrTokenConsumed)
	})

	t.Run("mark_verified_once", func(t *testing.T) {
		account := pendingAccount("verify@example.com", expiresAt)
		require.NoError(t, repository.Create(ctx, account))

		require.NoError(t, repository.MarkVerified(ctx, account.ID, *account.VerifyTokenHash))
		assert.ErrorIs(t, repository.MarkVerified(ctx, account.ID, *account.VerifyTokenHash), auth.ErrTokenConsumed)

		found, err := repository.FindByID(ctx, account.ID)
		require.NoError(t, err)
		assert.True(t, found.EmailVerified)
		assert.Nil(t, found.VerifyTokenHash)
		assert.Nil(t, found.VerifyTokenExpiresAt)

		err = repository.SetVerifyToken(ctx, account.ID, sec.HashToken("late"), expiresAt)
		assert.ErrorIs(t, err, auth.ErrAccountNotFound, "verified accounts take no new links")
	})
}
