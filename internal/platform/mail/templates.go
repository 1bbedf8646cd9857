// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

package mail

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"
)

// Template pairs an HTML body with its plain-text alternative.
type Template struct {
	subject string
	html    *htmltemplate.Template
	text    *texttemplate.Template
}

func newTemplate(name, subject, html, text string) *Template {
	return &Template{
		subject: subject,
		html:    htmltemplate.Must(htmltemplate.New(name).Parse(html)),
		text:    texttemplate.Must(texttemplate.New(name).Parse(text)),
	}
}

// Render executes both bodies with data and returns a message for to.
func (tmpl *Template) Render(to string, data any) (Message, error) {
	var html, text bytes.Buffer

	if err := tmpl.html.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("mail: render %s html: %w", tmpl.html.Name(), err)
	}
	if err := tmpl.text.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("mail: render %s text: %w", tmpl.text.Name(), err)
	}

	return Message{
		To:      []string{to},
		Subject: tmpl.subject,
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}

// VerificationData fills [VerificationTemplate].
type VerificationData struct {
	Name string
	Link string
	TTL  time.Duration
}

// ExpiresIn renders TTL for humans ("24 hours", "30 minutes").
func (data VerificationData) ExpiresIn() string {
	if data.TTL >= time.Hour && data.TTL%time.Hour == 0 {
		return pluralize(int(data.TTL/time.Hour), "hour")
	}
	return pluralize(int(data.TTL/time.Minute), "minute")
}

func pluralize(count int, unit string) string {
	if count == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", count, unit)
}

// VerificationTemplate carries the single-use verification link.
var VerificationTemplate = newTemplate("verification",
	"Verify your email for Acceleott",
	`<div style="font-family:Arial,sans-serif;line-height:1.6">
<h2>Welcome to Acceleott, {{.Name}}!</h2>
<p>Please confirm your email address to activate your account.</p>
<p><a href="{{.Link}}" style="background:#2563eb;color:#fff;padding:10px 18px;border-radius:6px;text-decoration:none">Verify email</a></p>
<p>This link expires in {{.ExpiresIn}}. If you did not create an account, you can ignore this message.</p>
</div>`,
	`Welcome to Acceleott, {{.Name}}!

Confirm your email address by opening this link:
{{.Link}}

The link expires in {{.ExpiresIn}}. If you did not create an account, ignore this message.
`)

// NewAccountData fills [NewAccountTemplate].
type NewAccountData struct {
	Name       string
	Email      string
	Phone      string
	Occupation string
	Source     string
	CreatedAt  time.Time
}

// NewAccountTemplate notifies the operator about a registration.
var NewAccountTemplate = newTemplate("new-account",
	"New Acceleott registration",
	`<div style="font-family:Arial,sans-serif">
<h3>New user registered</h3>
<ul>
<li><b>Name:</b> {{.Name}}</li>
<li><b>Email:</b> {{.Email}}</li>
{{if .Phone}}<li><b>Phone:</b> {{.Phone}}</li>{{end}}
{{if .Occupation}}<li><b>Occupation:</b> {{.Occupation}}</li>{{end}}
{{if .Source}}<li><b>Source:</b> {{.Source}}</li>{{end}}
<li><b>Registered:</b> {{.CreatedAt.Format "2006-01-02 15:04 MST"}}</li>
</ul>
</div>`,
	`New user registered
Name: {{.Name}}
Email: {{.Email}}
{{if .Phone}}Phone: {{.Phone}}
{{end}}{{if .Occupation}}Occupation: {{.Occupation}}
{{end}}{{if .Source}}Source: {{.Source}}
{{end}}Registered: {{.CreatedAt.Format "2006-01-02 15:04 MST"}}
`)

// DemoRequestData fills [DemoRequestTemplate].
type DemoRequestData struct {
	Name        string
	Email       string
	Contact     string
	Designation string
	CreatedAt   time.Time
}

// DemoRequestTemplate notifies the operator about a booked demo.
var DemoRequestTemplate = newTemplate("demo-request",
	"New demo request",
	`<div style="font-family:Arial,sans-serif">
<h3>New demo request</h3>
<ul>
<li><b>Name:</b> {{.Name}}</li>
<li><b>Email:</b> {{.Email}}</li>
<li><b>Contact:</b> {{.Contact}}</li>
<li><b>Designation:</b> {{.Designation}}</li>
<li><b>Received:</b> {{.CreatedAt.Format "2006-01-02 15:04 MST"}}</li>
</ul>
</div>`,
	`New demo request
Name: {{.Name}}
Email: {{.Email}}
Contact: {{.Contact}}
Designation: {{.Designation}}
Received: {{.CreatedAt.Format "2006-01-02 15:04 MST"}}
`)

// ContactData fills [ContactTemplate].
type ContactData struct {
	Name    string
	Email   string
	Message string
}

// ContactTemplate relays a contact-form submission to the site inbox.
var ContactTemplate = newTemplate("contact",
	"New contact form message",
	`<div style="font-family:Arial,sans-serif">
<h3>New contact form message</h3>
<p><b>Name:</b> {{.Name}}<br><b>Email:</b> {{.Email}}</p>
<p style="white-space:pre-wrap">{{.Message}}</p>
</div>`,
	`New contact form message
Name: {{.Name}}
Email: {{.Email}}

{{.Message}}
`)
