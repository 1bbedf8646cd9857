// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

/*
Package auth implements account registration, email verification and
session-based login for the Acceleott site.

Architecture:

  - Service: Orchestrates Register, VerifyEmail, ResendVerification, Login.
  - Repository: [AccountRepository] on PostgreSQL or SQLite, plus an optional
    Redis-backed [ResendThrottle].
  - Security: bcrypt passwords, hashed single-use verification links and
    HS256 session tokens from package sec.

An account can only obtain a session once its email address is verified.
*/
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/acceleott/acceleott/internal/platform/apperr"
	"github.com/acceleott/acceleott/internal/platform/ctxutil"
	"github.com/acceleott/acceleott/internal/platform/mail"
	"github.com/acceleott/acceleott/internal/platform/sec"
	"github.com/acceleott/acceleott/internal/platform/validate"
	"github.com/acceleott/acceleott/pkg/pointer"
	"github.com/acceleott/acceleott/pkg/uuid"
)

// # Contracts & Types

// TokenIssuer mints and checks single-use verification links.
type TokenIssuer interface {
	Issue() (*sec.TokenPair, error)
	Verify(raw, storedHash string, storedExpiry time.Time) error
}

// SessionProvider signs and verifies session tokens.
type SessionProvider interface {
	Issue(accountID, email, role string) (*sec.IssuedSession, error)
	Verify(token string) (*sec.AuthClaims, error)
}

// Settings carries the deployment values the service needs.
type Settings struct {
	// APIBaseURL prefixes emailed verification links.
	APIBaseURL string

	// AdminEmail receives registration notices and is granted the admin role.
	// Empty disables both.
	AdminEmail string

	// VerificationTTL is only used to word the email.
	VerificationTTL time.Duration
}

// Service implements the account use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, token
// handling or the verification gate on login must be reviewed with care.
type Service struct {
	accountRepository AccountRepository
	tokens            TokenIssuer
	sessions          SessionProvider
	mailer            mail.Dispatcher
	throttle          ResendThrottle
	settings          Settings
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	accountRepo AccountRepository,
	tokens TokenIssuer,
	sessions SessionProvider,
	mailer mail.Dispatcher,
	settings Settings,
) *Service {
	return &Service{
		accountRepository: accountRepo,
		tokens:            tokens,
		sessions:          sessions,
		mailer:            mailer,
		settings:          settings,
	}
}

// WithResendThrottle enables the per-address resend cooldown.
func (service *Service) WithResendThrottle(throttle ResendThrottle) *Service {
	service.throttle = throttle
	return service
}

// # Registration Flow

// RegisterInput holds the sign-up form.
type RegisterInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Phone      string `json:"phone"`
	Occupation string `json:"occupation"`
	Source     string `json:"source"`
}

// Ack is the message-only reply of registration and resend.
type Ack struct {
	Message         string `json:"message"`
	AlreadyVerified bool   `json:"alreadyVerified,omitempty"`
}

/*
Register validates, hashes, and persists a brand new unverified account,
then emails its verification link.

Description: No session is issued. Mail failures are logged and do not
undo the registration; the visitor can ask for a resend.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *Ack: Confirmation message
  - error: Validation, [ErrDuplicateEmail] or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*Ack, error) {

	// Normalize before validating so limits apply to what gets stored
	input.Name = norm.NFC.String(strings.TrimSpace(input.Name))
	input.Email = NormalizeEmail(input.Email)

	if err := validateRegistration(input); err != nil {
		return nil, err
	}

	// Cheap early answer; the UNIQUE constraint below is authoritative
	_, err := service.accountRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, ErrDuplicateEmail
	}
	if !errors.Is(err, ErrAccountNotFound) {
		return nil, fmt.Errorf("auth_service_register_lookup_failed: %w", err)
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	link, err := service.tokens.Issue()
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_failed: %w", err)
	}

	account := &Account{
		ID:                   uuid.New(),
		Name:                 input.Name,
		Email:                input.Email,
		PasswordHash:         hashedPassword,
		Phone:                pointer.NonEmpty(input.Phone),
		Occupation:           pointer.NonEmpty(input.Occupation),
		Source:               pointer.NonEmpty(input.Source),
		EmailVerified:        false,
		VerifyTokenHash:      &link.Hash,
		VerifyTokenExpiresAt: &link.ExpiresAt,
	}

	// A client hanging up must not leave half a registration behind
	writeContext := detach(context)

	if err := service.accountRepository.Create(writeContext, account); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	logger := ctxutil.GetLogger(context)
	logger.InfoContext(context, "auth_account_registered", slog.String("account_id", account.ID))

	if err := service.sendVerification(writeContext, account, link.Raw); err != nil {
		logger.ErrorContext(context, "auth_register_mail_failed",
			slog.String("account_id", account.ID),
			slog.Any("error", err),
		)
	}

	service.notifyAdmin(writeContext, account)

	return &Ack{Message: MessageRegistered}, nil
}

// # Verification Flow

/*
VerifyEmail consumes a verification link.

Description: Expired, unknown, reused and concurrently consumed links all
fail identically with [ErrInvalidOrExpiredToken].

Parameters:
  - context: context.Context
  - raw: string (the token from the link)

Returns:
  - error: [ErrInvalidOrExpiredToken] or storage errors
*/
func (service *Service) VerifyEmail(context context.Context, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ErrInvalidOrExpiredToken
	}

	hash := sec.HashToken(raw)

	account, err := service.accountRepository.FindByVerifyTokenHash(context, hash)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return ErrInvalidOrExpiredToken
		}
		return fmt.Errorf("auth_service_verify_lookup_failed: %w", err)
	}

	if !account.HasPendingVerification() {
		return ErrInvalidOrExpiredToken
	}

	if err := service.tokens.Verify(raw, *account.VerifyTokenHash, *account.VerifyTokenExpiresAt); err != nil {
		return ErrInvalidOrExpiredToken
	}

	// Compare-and-swap on the hash: of two concurrent clicks only one wins
	if err := service.accountRepository.MarkVerified(detach(context), account.ID, hash); err != nil {
		if errors.Is(err, ErrTokenConsumed) {
			return ErrInvalidOrExpiredToken
		}
		return fmt.Errorf("auth_service_verify_email_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "auth_email_verified", slog.String("account_id", account.ID))

	return nil
}

/*
ResendVerification issues a fresh link and invalidates the previous one.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *Ack: Sent, or AlreadyVerified with no token issued
  - error: Validation, [ErrAccountNotFound], RATE_LIMITED or DEPENDENCY_FAILURE
*/
func (service *Service) ResendVerification(context context.Context, email string) (*Ack, error) {
	email = NormalizeEmail(email)

	v := &validate.Validator{}
	v.Required(FieldEmail, email)
	if !v.HasErrors() {
		v.Email(FieldEmail, email)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	account, err := service.accountRepository.FindByEmail(context, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("auth_service_resend_lookup_failed: %w", err)
	}

	if account.EmailVerified {
		return &Ack{Message: MessageAlreadyVerified, AlreadyVerified: true}, nil
	}

	logger := ctxutil.GetLogger(context)

	if service.throttle != nil {
		allowed, remaining, err := service.throttle.Allow(context, email)
		switch {
		case err != nil:
			// Throttle outage must not lock visitors out of verification
			logger.WarnContext(context, "auth_resend_throttle_unavailable", slog.Any("error", err))
		case !allowed:
			return nil, apperr.RateLimited(int(math.Ceil(remaining.Seconds())))
		}
	}

	writeContext := detach(context)

	link, err := service.tokens.Issue()
	if err != nil {
		service.releaseCooldown(writeContext, email)
		return nil, fmt.Errorf("auth_service_token_failed: %w", err)
	}

	if err := service.accountRepository.SetVerifyToken(writeContext, account.ID, link.Hash, link.ExpiresAt); err != nil {
		service.releaseCooldown(writeContext, email)
		if errors.Is(err, ErrAccountNotFound) {
			// Verified between the lookup and the update
			return &Ack{Message: MessageAlreadyVerified, AlreadyVerified: true}, nil
		}
		return nil, fmt.Errorf("auth_service_resend_store_failed: %w", err)
	}

	if err := service.sendVerification(writeContext, account, link.Raw); err != nil {
		service.releaseCooldown(writeContext, email)
		return nil, apperr.DependencyFailure("Failed to send verification email", err)
	}

	return &Ack{Message: MessageVerificationSent}, nil
}

// releaseCooldown gives back a cooldown slot claimed by a resend that did not
// deliver a new link.
func (service *Service) releaseCooldown(context context.Context, email string) {
	if service.throttle == nil {
		return
	}
	if err := service.throttle.Reset(context, email); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "auth_resend_throttle_reset_failed", slog.Any("error", err))
	}
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is a freshly issued session and the account it belongs to.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *Profile  `json:"user"`
}

/*
Login validates credentials and issues a session token.

Description: Unknown email and wrong password are indistinguishable, in
message and in timing. Correct credentials on an unverified account yield
[ErrEmailNotVerified].

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginResult: Session token, expiry and profile
  - error: [ErrInvalidCredentials], [ErrEmailNotVerified] or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginResult, error) {
	email := NormalizeEmail(input.Email)

	v := &validate.Validator{}
	v.Required(FieldEmail, email).Required(FieldPassword, input.Password)
	if err := v.Err(); err != nil {
		return nil, err
	}

	account, err := service.accountRepository.FindByEmail(context, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			sec.BurnPasswordCheck(input.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	if !sec.CheckPasswordHash(input.Password, account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if !account.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	role := sec.RoleFor(account.Email, service.settings.AdminEmail)

	session, err := service.sessions.Issue(account.ID, account.Email, string(role))
	if err != nil {
		return nil, fmt.Errorf("auth_service_session_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "auth_login_succeeded",
		slog.String("account_id", account.ID),
		slog.String("role", string(role)),
	)

	return &LoginResult{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      account.Profile(),
	}, nil
}

/*
GetCurrentAccount resolves a session token to its account profile.

Returns:
  - *Profile: Public account view
  - error: [ErrNotAuthenticated], [ErrInvalidToken] or [ErrAccountNotFound]
*/
func (service *Service) GetCurrentAccount(context context.Context, token string) (*Profile, error) {
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	claims, err := service.sessions.Verify(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	account, err := service.accountRepository.FindByID(context, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("auth_service_current_account_failed: %w", err)
	}

	return account.Profile(), nil
}

// # Helpers

// NormalizeEmail trims and lower-cases an address the way it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegistration(input RegisterInput) error {
	v := &validate.Validator{}

	v.Required(FieldName, input.Name)
	if input.Name != "" {
		v.MinLen(FieldName, input.Name, NameMinLength).MaxLen(FieldName, input.Name, NameMaxLength)
	}

	v.Required(FieldEmail, input.Email)
	if input.Email != "" {
		v.Email(FieldEmail, input.Email).MaxLen(FieldEmail, input.Email, EmailMaxLength)
	}

	v.Required(FieldPassword, input.Password)
	if input.Password != "" {
		v.Custom(FieldPassword, len(input.Password) < PasswordMinLength, fmt.Sprintf("Minimum %d characters", PasswordMinLength))
		v.MaxBytes(FieldPassword, input.Password, sec.MaxPasswordBytes)
	}

	if phone := strings.TrimSpace(input.Phone); phone != "" {
		v.Phone(FieldPhone, phone)
	}
	v.MaxLen(FieldOccupation, strings.TrimSpace(input.Occupation), ProfileFieldMax)
	v.MaxLen(FieldSource, strings.TrimSpace(input.Source), ProfileFieldMax)

	return v.Err()
}

func (service *Service) verificationLink(raw string) string {
	return strings.TrimRight(service.settings.APIBaseURL, "/") + VerifyPathPrefix + raw
}

func (service *Service) sendVerification(context context.Context, account *Account, raw string) error {
	message, err := mail.VerificationTemplate.Render(account.Email, mail.VerificationData{
		Name: account.Name,
		Link: service.verificationLink(raw),
		TTL:  service.settings.VerificationTTL,
	})
	if err != nil {
		return err
	}
	return service.mailer.Send(context, message)
}

// notifyAdmin tells the site owner about a new registration. Best effort.
func (service *Service) notifyAdmin(context context.Context, account *Account) {
	if service.settings.AdminEmail == "" {
		return
	}

	message, err := mail.NewAccountTemplate.Render(service.settings.AdminEmail, mail.NewAccountData{
		Name:       account.Name,
		Email:      account.Email,
		Phone:      pointer.Val(account.Phone),
		Occupation: pointer.Val(account.Occupation),
		Source:     pointer.Val(account.Source),
		CreatedAt:  account.CreatedAt,
	})
	if err == nil {
		err = service.mailer.Send(context, message)
	}
	if err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "auth_admin_notify_failed",
			slog.String("account_id", account.ID),
			slog.Any("error", err),
		)
	}
}

// detach keeps request values (logger, request id) but drops cancellation.
func detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}
