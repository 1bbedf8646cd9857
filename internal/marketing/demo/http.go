// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

package demo

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/acceleott/acceleott/internal/platform/middleware"
	requestutil "github.com/acceleott/acceleott/internal/platform/request"
	"github.com/acceleott/acceleott/internal/platform/respond"
	"github.com/acceleott/acceleott/internal/platform/sec"
	"github.com/acceleott/acceleott/internal/platform/validate"
	"github.com/acceleott/acceleott/pkg/pagination"
)

// Handler implements the /api/demo endpoints.
type Handler struct {
	demoService *Service
	environment string
	now         func() time.Time
}

// NewHandler constructs a new [Handler]. environment is echoed by the status probe.
func NewHandler(service *Service, environment string) *Handler {
	return &Handler{demoService: service, environment: environment, now: time.Now}
}

// Routes returns a [chi.Router] configured with demo routes.
//
// # Endpoints
//   - GET  /         : Status probe.
//   - POST /         : Books a demo.
//   - GET  /requests : Lists stored requests (admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.status)
	router.Post("/", handler.book)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Get("/requests", handler.list)
	})

	return router
}

type statusResponse struct {
	Status      string    `json:"status"`
	Environment string    `json:"environment"`
	Timestamp   time.Time `json:"timestamp"`
}

func (handler *Handler) status(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, statusResponse{
		Status:      "ok",
		Environment: handler.environment,
		Timestamp:   handler.now().UTC(),
	})
}

/*
Book stores a demo request.

POST /api/demo

Response:
  - 201: Request
  - 400: VALIDATION_ERROR
*/
func (handler *Handler) book(writer http.ResponseWriter, request *http.Request) {
	var input BookInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	stored, err := handler.demoService.Book(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, stored)
}

// list serves GET /api/demo/requests?page=&limit=.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	requests, meta, err := handler.demoService.List(request.Context(), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, requests, meta)
}
