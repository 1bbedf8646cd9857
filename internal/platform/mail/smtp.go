// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
)

// implicitTLSPort is the SMTPS port; other ports negotiate STARTTLS.
const implicitTLSPort = 465

// SMTPDispatcher sends mail through an authenticated SMTP relay.
type SMTPDispatcher struct {
	client *gomail.Client
	from   string
}

// NewSMTPDispatcher configures a client for settings. No connection is made until Send.
func NewSMTPDispatcher(settings Settings) (*SMTPDispatcher, error) {
	options := []gomail.Option{
		gomail.WithPort(settings.SMTPPort),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(settings.SMTPUsername),
		gomail.WithPassword(settings.SMTPPassword),
	}

	if settings.SMTPPort == implicitTLSPort {
		options = append(options, gomail.WithSSL())
	} else {
		options = append(options, gomail.WithTLSPolicy(gomail.TLSMandatory))
	}

	if settings.Timeout > 0 {
		options = append(options, gomail.WithTimeout(settings.Timeout))
	}

	client, err := gomail.NewClient(settings.SMTPHost, options...)
	if err != nil {
		return nil, fmt.Errorf("mail: failed to configure smtp client: %w", err)
	}

	return &SMTPDispatcher{client: client, from: settings.From}, nil
}

// Send builds a multipart message and delivers it in a single SMTP session.
func (dispatcher *SMTPDispatcher) Send(ctx context.Context, message Message) error {
	if err := message.validate(); err != nil {
		return err
	}

	msg, err := dispatcher.build(message)
	if err != nil {
		return err
	}

	if err := dispatcher.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail: smtp delivery failed: %w", err)
	}
	return nil
}

func (dispatcher *SMTPDispatcher) build(message Message) (*gomail.Msg, error) {
	msg := gomail.NewMsg()

	if err := msg.From(dispatcher.from); err != nil {
		return nil, fmt.Errorf("mail: invalid sender: %w", err)
	}
	if err := msg.To(message.To...); err != nil {
		return nil, fmt.Errorf("mail: invalid recipient: %w", err)
	}
	if message.ReplyTo != "" {
		if err := msg.ReplyTo(message.ReplyTo); err != nil {
			return nil, fmt.Errorf("mail: invalid reply-to: %w", err)
		}
	}

	msg.Subject(message.Subject)

	switch {
	case message.Text != "" && message.HTML != "":
		msg.SetBodyString(gomail.TypeTextPlain, message.Text)
		msg.AddAlternativeString(gomail.TypeTextHTML, message.HTML)
	case message.HTML != "":
		msg.SetBodyString(gomail.TypeTextHTML, message.HTML)
	default:
		msg.SetBodyString(gomail.TypeTextPlain, message.Text)
	}

	return msg, nil
}
