// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidOrExpiredToken covers a wrong, unknown, consumed or expired
// verification token. The causes are deliberately indistinguishable.
var ErrInvalidOrExpiredToken = errors.New("sec: invalid or expired token")

// TokenPair is a single-use verification token. Only Hash and ExpiresAt are
// persisted; Raw leaves the process exactly once, inside the emailed link.
type TokenPair struct {
	Raw       string
	Hash      string
	ExpiresAt time.Time
}

// VerificationTokens issues and checks email verification tokens.
type VerificationTokens struct {
	size       int
	timeToLive time.Duration
	now        func() time.Time
}

// NewVerificationTokens creates a token service producing size-byte tokens
// valid for timeToLive.
func NewVerificationTokens(size int, timeToLive time.Duration) *VerificationTokens {
	return &VerificationTokens{size: size, timeToLive: timeToLive, now: time.Now}
}

// WithClock returns a copy of the service that reads time from now.
func (tokens *VerificationTokens) WithClock(now func() time.Time) *VerificationTokens {
	clone := *tokens
	clone.now = now
	return &clone
}

// Issue generates a fresh raw token, its digest and its expiry.
func (tokens *VerificationTokens) Issue() (*TokenPair, error) {
	raw, err := GenerateSecureToken(tokens.size)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		Raw:       raw,
		Hash:      HashToken(raw),
		ExpiresAt: tokens.now().Add(tokens.timeToLive),
	}, nil
}

// Verify succeeds only when raw hashes to storedHash and storedExpiry has not passed.
func (tokens *VerificationTokens) Verify(raw, storedHash string, storedExpiry time.Time) error {
	if raw == "" || storedHash == "" || storedExpiry.IsZero() {
		return ErrInvalidOrExpiredToken
	}

	computed := HashToken(raw)
	if subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) != 1 {
		return ErrInvalidOrExpiredToken
	}

	if tokens.now().After(storedExpiry) {
		return ErrInvalidOrExpiredToken
	}

	return nil
}

// GenerateSecureToken returns size random bytes encoded as lowercase hex.
func GenerateSecureToken(size int) (string, error) {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("sec: failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashToken returns the hex SHA-256 digest used to store and look up tokens.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
