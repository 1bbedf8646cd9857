// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acceleott/acceleott/internal/platform/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

/*
TestLoad_Defaults verifies that only the required variables are needed.
*/
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite://acceleott.db")
	t.Setenv("SESSION_SECRET", testSecret)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, config.MailProviderLog, cfg.MailProvider)
	assert.Equal(t, 5*time.Second, cfg.MailTimeout)
	assert.Equal(t, "http://localhost:5173", cfg.FrontendURL)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.CookieSecure())
}

/*
TestLoad_MissingRequired ensures startup fails without a database or secret.
*/
func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SESSION_SECRET", testSecret)

	_, err := config.Load()
	assert.Error(t, err)
}

/*
TestLoad_Validation covers the cross-field rules.
*/
func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{"short_secret", map[string]string{"SESSION_SECRET": "short"}, true},
		{"unknown_provider", map[string]string{"MAIL_PROVIDER": "pigeon"}, true},
		{"smtp_without_credentials", map[string]string{"MAIL_PROVIDER": "smtp"}, true},
		{"smtp_with_credentials", map[string]string{"MAIL_PROVIDER": "smtp", "SMTP_USERNAME": "u", "SMTP_PASSWORD": "p"}, false},
		{"resend_without_key", map[string]string{"MAIL_PROVIDER": "resend"}, true},
		{"resend_with_key", map[string]string{"MAIL_PROVIDER": "resend", "RESEND_API_KEY": "re_123"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "sqlite://acceleott.db")
			t.Setenv("SESSION_SECRET", testSecret)
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			_, err := config.Load()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

/*
TestConfig_Helpers checks the derived values used by the HTTP layer.
*/
func TestConfig_Helpers(t *testing.T) {
	cfg := &config.Config{
		Environment:  "staging",
		APIBaseURL:   "https://api.acceleott.com",
		FrontendURL:  "https://acceleott.com/",
		ExtraOrigins: " https://www.acceleott.com , ,http://localhost:3000/",
		MailFrom:     "no-reply@acceleott.com",
	}

	assert.True(t, cfg.CookieSecure())
	assert.Equal(t, []string{
		"https://acceleott.com",
		"https://www.acceleott.com",
		"http://localhost:3000",
	}, cfg.AllowedOrigins())
	assert.Equal(t, "no-reply@acceleott.com", cfg.ContactRecipient())

	cfg.ContactInbox = "hello@acceleott.com"
	assert.Equal(t, "hello@acceleott.com", cfg.ContactRecipient())
}
