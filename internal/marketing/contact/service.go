// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

// Package contact relays contact-form submissions to the site inbox and
// lets admins send a test email through the configured provider.
package contact

import (
	"context"
	"log/slog"
	"strings"

	"github.com/acceleott/acceleott/internal/platform/apperr"
	"github.com/acceleott/acceleott/internal/platform/ctxutil"
	"github.com/acceleott/acceleott/internal/platform/mail"
	"github.com/acceleott/acceleott/internal/platform/validate"
)

// Input bounds and field identifiers.
const (
	MessageMaxLength = 5000
	SubjectMaxLength = 200
	NameMaxLength    = 100

	FieldName    = "name"
	FieldEmail   = "email"
	FieldMessage = "message"
	FieldTo      = "to"
	FieldSubject = "subject"
	FieldText    = "text"

	MessageSent = "Message sent successfully"
)

// MessageInput is the contact form as posted.
type MessageInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// TestEmailInput is an operator-composed plain-text email.
type TestEmailInput struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// Service implements the contact use cases.
type Service struct {
	mailer mail.Dispatcher
	inbox  string
}

// NewService constructs a new [Service] delivering to inbox.
func NewService(mailer mail.Dispatcher, inbox string) *Service {
	return &Service{mailer: mailer, inbox: inbox}
}

/*
Send relays a contact-form submission to the site inbox.

Description: The submitter goes into Reply-To; the envelope sender stays
the configured MAIL_FROM so providers accept the message.

Returns:
  - error: Validation or DEPENDENCY_FAILURE
*/
func (service *Service) Send(ctx context.Context, input MessageInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Message = strings.TrimSpace(input.Message)

	v := &validate.Validator{}
	v.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, NameMaxLength)
	v.Required(FieldEmail, input.Email)
	if input.Email != "" {
		v.Email(FieldEmail, input.Email)
	}
	v.Required(FieldMessage, input.Message).MaxLen(FieldMessage, input.Message, MessageMaxLength)
	if err := v.Err(); err != nil {
		return err
	}

	message, err := mail.ContactTemplate.Render(service.inbox, mail.ContactData(input))
	if err != nil {
		return apperr.Internal(err)
	}
	message.ReplyTo = input.Email

	if err := service.mailer.Send(ctx, message); err != nil {
		ctxutil.GetLogger(ctx).ErrorContext(ctx, "contact_send_failed", slog.Any("error", err))
		return apperr.DependencyFailure("Failed to send message. Please try again.", err)
	}

	return nil
}

// SendTestEmail delivers a plain-text message to any address. Admin only.
func (service *Service) SendTestEmail(ctx context.Context, input TestEmailInput) error {
	input.To = strings.TrimSpace(input.To)

	v := &validate.Validator{}
	v.Required(FieldTo, input.To)
	if input.To != "" {
		v.Email(FieldTo, input.To)
	}
	v.Required(FieldSubject, input.Subject).MaxLen(FieldSubject, input.Subject, SubjectMaxLength)
	v.Required(FieldText, input.Text).MaxLen(FieldText, input.Text, MessageMaxLength)
	if err := v.Err(); err != nil {
		return err
	}

	err := service.mailer.Send(ctx, mail.Message{
		To:      []string{input.To},
		Subject: input.Subject,
		Text:    input.Text,
	})
	if err != nil {
		return apperr.DependencyFailure("Failed to send test email", err)
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "contact_test_email_sent", slog.String("to", input.To))
	return nil
}
