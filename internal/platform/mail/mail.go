// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

/*
Package mail delivers transactional email: verification links, operator
notifications and contact-form relays.

Providers:

  - smtp: authenticated SMTP through wneessen/go-mail (Gmail by default).
  - resend: the Resend HTTP API.
  - log: writes messages to the structured log; for local development.

Every send is bounded by the timeout given to [New]; callers decide whether a
failure is fatal to their operation.
*/
package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ErrInvalidMessage is returned for messages without recipients or subject.
var ErrInvalidMessage = errors.New("mail: message requires a recipient and a subject")

// Message is a single outbound email.
type Message struct {
	To      []string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

func (message Message) validate() error {
	if len(message.To) == 0 || strings.TrimSpace(message.Subject) == "" {
		return ErrInvalidMessage
	}
	if message.HTML == "" && message.Text == "" {
		return ErrInvalidMessage
	}
	return nil
}

// Dispatcher sends a [Message] through a provider.
type Dispatcher interface {
	Send(ctx context.Context, message Message) error
}

// Settings selects and configures a provider.
type Settings struct {
	Provider string
	From     string
	Timeout  time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string

	ResendAPIKey string
}

// New builds the [Dispatcher] named by settings.Provider, wrapped with the send timeout.
func New(settings Settings, logger *slog.Logger) (Dispatcher, error) {
	var dispatcher Dispatcher

	switch settings.Provider {
	case "smtp":
		smtp, err := NewSMTPDispatcher(settings)
		if err != nil {
			return nil, err
		}
		dispatcher = smtp
	case "resend":
		dispatcher = NewResendDispatcher(settings.ResendAPIKey, settings.From, settings.Timeout)
	case "log", "":
		dispatcher = NewLogDispatcher(logger)
	default:
		return nil, fmt.Errorf("mail: unknown provider %q", settings.Provider)
	}

	logger.Info("mail dispatcher configured", slog.String("provider", settings.Provider))
	return WithTimeout(dispatcher, settings.Timeout), nil
}

// timeoutDispatcher bounds every send with a deadline.
type timeoutDispatcher struct {
	next    Dispatcher
	timeout time.Duration
}

// WithTimeout bounds every send made through next. A non-positive timeout disables the bound.
func WithTimeout(next Dispatcher, timeout time.Duration) Dispatcher {
	if timeout <= 0 {
		return next
	}
	return &timeoutDispatcher{next: next, timeout: timeout}
}

func (dispatcher *timeoutDispatcher) Send(ctx context.Context, message Message) error {
	sendCtx, cancel := context.WithTimeout(ctx, dispatcher.timeout)
	defer cancel()
	return dispatcher.next.Send(sendCtx, message)
}

// LogDispatcher writes messages to the log instead of sending them.
type LogDispatcher struct {
	logger *slog.Logger
}

// NewLogDispatcher creates a [LogDispatcher].
func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

// Send logs the message, including its plain-text body so links can be
// followed during local development.
func (dispatcher *LogDispatcher) Send(ctx context.Context, message Message) error {
	if err := message.validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dispatcher.logger.InfoContext(ctx, "mail_logged",
		slog.Any("to", message.To),
		slog.String("reply_to", message.ReplyTo),
		slog.String("subject", message.Subject),
		slog.String("text", message.Text),
	)
	return nil
}
