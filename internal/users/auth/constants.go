// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

package auth

// # Field Identifiers

const (
	FieldName       = "name"
	FieldEmail      = "email"
	FieldPassword   = "password"
	FieldPhone      = "phone"
	FieldOccupation = "occupation"
	FieldSource     = "source"
	FieldToken      = "token"
)

// # Input Bounds

const (
	NameMinLength     = 2
	NameMaxLength     = 100
	PasswordMinLength = 6
	ProfileFieldMax   = 100
	EmailMaxLength    = 254
)

// # Routes

const (
	// VerifyPathPrefix is where emailed links point, relative to the API base URL.
	VerifyPathPrefix = "/api/auth/verify/"

	// VerifySuccessPath and VerifyFailedPath are frontend pages, relative to FRONTEND_URL.
	VerifySuccessPath = "/verify-success"
	VerifyFailedPath  = "/verify-failed"
)

// # Messages

const (
	MessageRegistered       = "Registration successful. Please check your email to verify your account."
	MessageVerificationSent = "Verification email sent"
	MessageAlreadyVerified  = "Email already verified"
	MessageLoggedOut        = "Logged out successfully"
)
