// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

package auth

import (
	"time"
)

// # Domain Entities

// Account is a registered visitor of the Acceleott site.
//
// VerifyTokenHash and VerifyTokenExpiresAt are either both set (a link is
// outstanding) or both nil.
type Account struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	Email                string     `json:"email"`
	PasswordHash         string     `json:"-"`
	Phone                *string    `json:"phone,omitempty"`
	Occupation           *string    `json:"occupation,omitempty"`
	Source               *string    `json:"source,omitempty"`
	EmailVerified        bool       `json:"emailVerified"`
	VerifyTokenHash      *string    `json:"-"`
	VerifyTokenExpiresAt *time.Time `json:"-"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// Profile is the public view of an [Account]. It never carries credentials
// or verification state beyond the verified flag.
type Profile struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         *string   `json:"phone,omitempty"`
	Occupation    *string   `json:"occupation,omitempty"`
	Source        *string   `json:"source,omitempty"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Profile projects the account onto its public fields.
func (account *Account) Profile() *Profile {
	return &Profile{
		ID:            account.ID,
		Name:          account.Name,
		Email:         account.Email,
		Phone:         account.Phone,
		Occupation:    account.Occupation,
		Source:        account.Source,
		EmailVerified: account.EmailVerified,
		CreatedAt:     account.CreatedAt,
	}
}

// HasPendingVerification reports whether a verification link is outstanding.
func (account *Account) HasPendingVerification() bool {
	return account.VerifyTokenHash != nil && account.VerifyTokenExpiresAt != nil
}
