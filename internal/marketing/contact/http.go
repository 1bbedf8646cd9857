// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

package contact

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/acceleott/acceleott/internal/platform/middleware"
	requestutil "github.com/acceleott/acceleott/internal/platform/request"
	"github.com/acceleott/acceleott/internal/platform/respond"
	"github.com/acceleott/acceleott/internal/platform/sec"
	"github.com/acceleott/acceleott/internal/platform/validate"
)

// Handler implements the contact form and test-email endpoints.
type Handler struct {
	contactService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{contactService: service}
}

// Routes returns the public contact form router (POST /).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/", handler.send)
	return router
}

// TestEmailRoutes returns the admin-only test-email router (POST /).
func (handler *Handler) TestEmailRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRole(sec.RoleAdmin))
	router.Post("/", handler.sendTestEmail)
	return router
}

/*
Send relays a contact-form message.

POST /api/contact

Response:
  - 200: {message}
  - 400: VALIDATION_ERROR
  - 500: DEPENDENCY_FAILURE
*/
func (handler *Handler) send(writer http.ResponseWriter, request *http.Request) {
	var input MessageInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := handler.contactService.Send(request.Context(), input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, http.StatusOK, MessageSent)
}

// sendTestEmail serves POST /api/test-email.
func (handler *Handler) sendTestEmail(writer http.ResponseWriter, request *http.Request) {
	var input TestEmailInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := handler.contactService.SendTestEmail(request.Context(), input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, http.StatusOK, "Test email sent")
}
