// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

package auth

import (
	"errors"
	"net/http"

	"github.com/acceleott/acceleott/internal/platform/apperr"
)

// # Client-facing errors

var (
	ErrDuplicateEmail        = apperr.New("DUPLICATE_EMAIL", "Email already registered", http.StatusBadRequest)
	ErrInvalidCredentials    = apperr.New("INVALID_CREDENTIALS", "Invalid credentials", http.StatusBadRequest)
	ErrInvalidOrExpiredToken = apperr.New("INVALID_OR_EXPIRED_TOKEN", "Invalid or expired verification link", http.StatusBadRequest)
	ErrInvalidToken          = apperr.New("INVALID_TOKEN", "Invalid token", http.StatusUnauthorized)
	ErrNotAuthenticated      = apperr.New("NOT_AUTHENTICATED", "Not authenticated", http.StatusUnauthorized)
	ErrEmailNotVerified      = apperr.New("EMAIL_NOT_VERIFIED", "Please verify your email before logging in", http.StatusForbidden)
	ErrAccountNotFound       = apperr.NotFound("User")
)

// # Store errors

var (
	// ErrEmailTaken is returned by [AccountRepository.Create] on a uniqueness conflict.
	ErrEmailTaken = errors.New("auth: email already taken")

	// ErrTokenConsumed is returned by [AccountRepository.MarkVerified] when the
	// expected token is no longer stored (used or replaced concurrently).
	ErrTokenConsumed = errors.New("auth: verification token no longer current")
)
