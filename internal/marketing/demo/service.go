// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

/*
Package demo records "book a demo" requests from the marketing site and
notifies the site owner about each one.
*/
package demo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/acceleott/acceleott/internal/platform/ctxutil"
	"github.com/acceleott/acceleott/internal/platform/mail"
	"github.com/acceleott/acceleott/internal/platform/validate"
	"github.com/acceleott/acceleott/pkg/pagination"
	"github.com/acceleott/acceleott/pkg/uuid"
)

// Service implements the demo request use cases.
type Service struct {
	repository Repository
	mailer     mail.Dispatcher
	adminEmail string
}

// NewService constructs a new [Service]. An empty adminEmail disables notices.
func NewService(repository Repository, mailer mail.Dispatcher, adminEmail string) *Service {
	return &Service{repository: repository, mailer: mailer, adminEmail: adminEmail}
}

/*
Book validates and stores a demo request, then notifies the admin.

Description: The notice is best effort; a stored request is never rolled
back because mail failed.

Returns:
  - *Request: The stored request
  - error: Validation or storage errors
*/
func (service *Service) Book(ctx context.Context, input BookInput) (*Request, error) {
	request := &Request{
		ID:          uuid.New(),
		Name:        norm.NFC.String(strings.TrimSpace(input.Name)),
		Email:       strings.ToLower(strings.TrimSpace(input.Email)),
		Contact:     strings.TrimSpace(input.Contact),
		Designation: strings.TrimSpace(input.Designation),
	}
	if request.Designation == "" {
		request.Designation = DefaultDesignation
	}

	v := &validate.Validator{}
	v.Required(FieldName, request.Name)
	if request.Name != "" {
		v.MinLen(FieldName, request.Name, NameMinLength).MaxLen(FieldName, request.Name, NameMaxLength)
	}
	v.Required(FieldEmail, request.Email)
	if request.Email != "" {
		v.Email(FieldEmail, request.Email)
	}
	v.Required(FieldContact, request.Contact)
	if request.Contact != "" {
		v.Phone(FieldContact, request.Contact)
	}
	v.MaxLen(FieldDesignation, request.Designation, DesignationMaxLength)
	if err := v.Err(); err != nil {
		return nil, err
	}

	if err := service.repository.Create(context.WithoutCancel(ctx), request); err != nil {
		return nil, fmt.Errorf("demo_service_book_failed: %w", err)
	}

	service.notifyAdmin(context.WithoutCancel(ctx), request)

	return request, nil
}

// List returns one page of requests, newest first.
func (service *Service) List(ctx context.Context, params pagination.Params) ([]*Request, pagination.Meta, error) {
	requests, total, err := service.repository.List(ctx, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("demo_service_list_failed: %w", err)
	}
	if requests == nil {
		requests = []*Request{}
	}

	return requests, pagination.NewMeta(params, total), nil
}

func (service *Service) notifyAdmin(ctx context.Context, request *Request) {
	logger := ctxutil.GetLogger(ctx)

	if service.adminEmail == "" {
		logger.WarnContext(ctx, "demo_admin_email_not_configured", slog.String("demo_request_id", request.ID))
		return
	}

	message, err := mail.DemoRequestTemplate.Render(service.adminEmail, mail.DemoRequestData{
		Name:        request.Name,
		Email:       request.Email,
		Contact:     request.Contact,
		Designation: request.Designation,
		CreatedAt:   request.CreatedAt,
	})
	if err == nil {
		err = service.mailer.Send(ctx, message)
	}
	if err != nil {
		logger.WarnContext(ctx, "demo_admin_notify_failed",
			slog.String("demo_request_id", request.ID),
			slog.Any("error", err),
		)
		return
	}

	logger.InfoContext(ctx, "demo_admin_notified", slog.String("demo_request_id", request.ID))
}
