// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, session signing,
// verification tokens) from the domain logic. Services receive it through
// small interfaces so tests can substitute fakes.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSession is returned for any session token that fails parsing,
// signature, algorithm, issuer or expiry checks. Causes are not distinguished.
var ErrInvalidSession = errors.New("sec: invalid session token")

// AuthClaims represents the payload embedded inside a session token.
//
// The account identity travels in the token so that [middleware.Authenticate]
// can rebuild the caller without a database round trip.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the payload small.
	UserID string `json:"uid"`
	Email  string `json:"eml"`
	Role   string `json:"rol"`
}

// IssuedSession is a freshly signed session token and its expiry.
type IssuedSession struct {
	Token     string
	ExpiresAt time.Time
}

// SessionIssuer signs and verifies HS256 session tokens with a shared secret.
type SessionIssuer struct {
	secret     []byte
	issuer     string
	timeToLive time.Duration
	now        func() time.Time
}

// NewSessionIssuer creates a new [SessionIssuer].
func NewSessionIssuer(secret, issuer string, timeToLive time.Duration) *SessionIssuer {
	return &SessionIssuer{
		secret:     []byte(secret),
		issuer:     issuer,
		timeToLive: timeToLive,
		now:        time.Now,
	}
}

// WithClock returns a copy of the issuer that reads time from now.
func (issuer *SessionIssuer) WithClock(now func() time.Time) *SessionIssuer {
	clone := *issuer
	clone.now = now
	return &clone
}

// Issue creates a signed session token for an account.
func (issuer *SessionIssuer) Issue(accountID, email, role string) (*IssuedSession, error) {
	issuedAt := issuer.now()
	expiresAt := issuedAt.Add(issuer.timeToLive)

	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			Issuer:    issuer.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: accountID,
		Email:  email,
		Role:   role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(issuer.secret)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to sign session: %w", err)
	}

	return &IssuedSession{Token: signedToken, ExpiresAt: expiresAt}, nil
}

// Verify checks the signature and validity of a session token.
func (issuer *SessionIssuer) Verify(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return issuer.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(issuer.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}

	if claims.Subject == "" {
		return nil, ErrInvalidSession
	}

	return claims, nil
}

// VerifyToken satisfies the middleware token verifier contract.
func (issuer *SessionIssuer) VerifyToken(tokenString string) (*AuthClaims, error) {
	return issuer.Verify(tokenString)
}
