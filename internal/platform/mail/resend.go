// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const resendBaseURL = "https://api.resend.com"

// ResendDispatcher sends mail through the Resend HTTP API.
type ResendDispatcher struct {
	apiKey  string
	from    string
	client  *http.Client
	baseURL string
}

// NewResendDispatcher creates a [ResendDispatcher].
func NewResendDispatcher(apiKey, from string, timeout time.Duration) *ResendDispatcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ResendDispatcher{
		apiKey:  apiKey,
		from:    from,
		client:  &http.Client{Timeout: timeout},
		baseURL: resendBaseURL,
	}
}

// WithBaseURL points the dispatcher at another endpoint (tests, regional hosts).
func (dispatcher *ResendDispatcher) WithBaseURL(baseURL string) *ResendDispatcher {
	clone := *dispatcher
	clone.baseURL = baseURL
	return &clone
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// Send posts the message to /emails; any non-2xx answer is an error.
func (dispatcher *ResendDispatcher) Send(ctx context.Context, message Message) error {
	if err := message.validate(); err != nil {
		return err
	}

	body, err := json.Marshal(resendRequest{
		From:    dispatcher.from,
		To:      message.To,
		ReplyTo: message.ReplyTo,
		Subject: message.Subject,
		HTML:    message.HTML,
		Text:    message.Text,
	})
	if err != nil {
		return fmt.Errorf("mail: encode resend request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, dispatcher.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("mail: build resend request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+dispatcher.apiKey)
	request.Header.Set("Content-Type", "application/json")

	response, err := dispatcher.client.Do(request)
	if err != nil {
		return fmt.Errorf("mail: resend request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(response.Body, 1024))
		return fmt.Errorf("mail: resend rejected message (status %d): %s", response.StatusCode, bytes.TrimSpace(detail))
	}

	return nil
}
