// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

package auth

import (
	"context"
	"time"
)

// # Account Data Access

// AccountRepository defines the data access contract for accounts.
//
// Lookups return [ErrAccountNotFound] when nothing matches. Emails are
// stored and compared in their normalized (trimmed, lower-case) form.
type AccountRepository interface {

	/*
		Create persists a brand-new account.

		Returns:
		  - error: [ErrEmailTaken] when the email is already registered
	*/
	Create(context context.Context, account *Account) error

	// FindByID returns the account with the given ID.
	FindByID(context context.Context, id string) (*Account, error)

	// FindByEmail returns the account registered under a normalized email.
	FindByEmail(context context.Context, email string) (*Account, error)

	// FindByVerifyTokenHash returns the account whose outstanding link hashes to hash.
	FindByVerifyTokenHash(context context.Context, hash string) (*Account, error)

	/*
		SetVerifyToken replaces the outstanding verification link of an
		unverified account. Any previous link stops working.

		Returns:
		  - error: [ErrAccountNotFound] if no unverified account has this ID
	*/
	SetVerifyToken(context context.Context, id, hash string, expiresAt time.Time) error

	/*
		MarkVerified flips the account to verified and clears its token,
		but only while expectedHash is still the stored token hash.

		Returns:
		  - error: [ErrTokenConsumed] when the token was used or replaced meanwhile
	*/
	MarkVerified(context context.Context, id, expectedHash string) error
}

// # Resend Throttling

// ResendThrottle enforces a cooldown between verification resends per address.
type ResendThrottle interface {

	/*
		Allow claims the cooldown window for email.

		Returns:
		  - bool: true when a resend may go out now
		  - time.Duration: remaining wait when refused
		  - error: backend failures
	*/
	Allow(context context.Context, email string) (bool, time.Duration, error)

	// Reset lifts the cooldown, used when the resend could not be delivered.
	Reset(context context.Context, email string) error
}
