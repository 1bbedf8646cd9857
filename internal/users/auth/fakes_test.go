// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

package auth_test

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/acceleott/acceleott/internal/platform/mail"
	"github.com/acceleott/acceleott/internal/platform/sec"
	"github.com/acceleott/acceleott/internal/users/auth"
)

const (
	testSecret     = "test-session-secret-with-at-least-32-bytes"
	testAPIBase    = "https://api.acceleott.test"
	testFrontend   = "https://acceleott.test"
	testAdminEmail = "owner@acceleott.test"
)

// # In-memory account store

type memoryRepository struct {
	mu       sync.Mutex
	accounts map[string]auth.Account

	// setTokenErr, when set, fails every SetVerifyToken call.
	setTokenErr error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{accounts: make(map[string]auth.Account)}
}

func (repository *memoryRepository) Create(ctx context.Context, account *auth.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, existing := range repository.accounts {
		if existing.Email == account.Email {
			return auth.ErrEmailTaken
		}
	}

	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	account.UpdatedAt = account.CreatedAt
	repository.accounts[account.ID] = *account
	return nil
}

func (repository *memoryRepository) FindByID(_ context.Context, id string) (*auth.Account, error) {
	return repository.find(func(account auth.Account) bool { return account.ID == id })
}

func (repository *memoryRepository) FindByEmail(_ context.Context, email string) (*auth.Account, error) {
	return repository.find(func(account auth.Account) bool { return account.Email == email })
}

func (repository *memoryRepository) FindByVerifyTokenHash(_ context.Context, hash string) (*auth.Account, error) {
	return repository.find(func(account auth.Account) bool {
		return account.VerifyTokenHash != nil && *account.VerifyTokenHash == hash
	})
}

func (repository *memoryRepository) SetVerifyToken(ctx context.Context, id, hash string, expiresAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.setTokenErr != nil {
		return repository.setTokenErr
	}

	account, ok := repository.accounts[id]
	if !ok || account.EmailVerified {
		return auth.ErrAccountNotFound
	}
	account.VerifyTokenHash = &hash
	account.VerifyTokenExpiresAt = &expiresAt
	repository.accounts[id] = account
	return nil
}

func (repository *memoryRepository) MarkVerified(ctx context.Context, id, expectedHash string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	account, ok := repository.accounts[id]
	if !ok || account.VerifyTokenHash == nil || *account.VerifyTokenHash != expectedHash {
		return auth.ErrTokenConsumed
	}
	account.EmailVerified = true
	account.VerifyTokenHash = nil
	account.VerifyTokenExpiresAt = nil
	repository.accounts[id] = account
	return nil
}

func (repository *memoryRepository) find(match func(auth.Account) bool) (*auth.Account, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, account := range repository.accounts {
		if match(account) {
			found := account
			return &found, nil
		}
	}
	return nil, auth.ErrAccountNotFound
}

func (repository *memoryRepository) delete(id string) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	delete(repository.accounts, id)
}

// # Recording mailer

type recordingMailer struct {
	mu       sync.Mutex
	messages []mail.Message
	err      error
}

func (mailer *recordingMailer) Send(_ context.Context, message mail.Message) error {
	mailer.mu.Lock()
	defer mailer.mu.Unlock()

	if mailer.err != nil {
		return mailer.err
	}
	mailer.messages = append(mailer.messages, message)
	return nil
}

func (mailer *recordingMailer) sentTo(address string) []mail.Message {
	mailer.mu.Lock()
	defer mailer.mu.Unlock()

	var matched []mail.Message
	for _, message := range mailer.messages {
		for _, to := range message.To {
			if to == address {
				matched = append(matched, message)
			}
		}
	}
	return matched
}

var linkPattern = regexp.MustCompile(`/api/auth/verify/([0-9a-f]{64})`)

// lastLink returns the raw token of the newest verification email to address.
func (mailer *recordingMailer) lastLink(t *testing.T, address string) string {
	t.Helper()

	messages := mailer.sentTo(address)
	require.NotEmpty(t, messages, "no mail sent to %s", address)

	for index := len(messages) - 1; index >= 0; index-- {
		if match := linkPattern.FindStringSubmatch(messages[index].Text); match != nil {
			return match[1]
		}
	}

	t.Fatalf("no verification link mailed to %s", address)
	return ""
}

// # Throttle

type stubThrottle struct {
	allowed   bool
	remaining time.Duration
	err       error
	resets    int
}

func (throttle *stubThrottle) Allow(context.Context, string) (bool, time.Duration, error) {
	return throttle.allowed, throttle.remaining, throttle.err
}

func (throttle *stubThrottle) Reset(context.Context, string) error {
	throttle.resets++
	return nil
}

// # Fixture

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	service  *auth.Service
	repo     *memoryRepository
	mailer   *recordingMailer
	sessions *sec.SessionIssuer
	clock    *clock
}

func newFixture() *fixture {
	c := &clock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	repo := newMemoryRepository()
	mailer := &recordingMailer{}
	tokens := sec.NewVerificationTokens(32, 24*time.Hour).WithClock(c.Now)
	sessions := sec.NewSessionIssuer(testSecret, "acceleott.com", 24*time.Hour).WithClock(c.Now)

	service := auth.NewService(repo, tokens, sessions, mailer, auth.Settings{
		APIBaseURL:      testAPIBase,
		AdminEmail:      testAdminEmail,
		VerificationTTL: 24 * time.Hour,
	})

	return &fixture{service: service, repo: repo, mailer: mailer, sessions: sessions, clock: c}
}

func validRegistration(email string) auth.RegisterInput {
	return auth.RegisterInput{
		Name:       "Ada Lovelace",
		Email:      email,
		Password:   "correct-horse",
		Phone:      "+4915112345678",
		Occupation: "Engineer",
		Source:     "LinkedIn",
	}
}

// registerVerified creates an account and consumes its verification link.
func (f *fixture) registerVerified(t *testing.T, input auth.RegisterInput) {
	t.Helper()

	_, err := f.service.Register(context.Background(), input)
	require.NoError(t, err)
	require.NoError(t, f.service.VerifyEmail(context.Background(), f.mailer.lastLink(t, auth.NormalizeEmail(input.Email))))
}
