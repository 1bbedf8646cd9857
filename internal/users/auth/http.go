// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/acceleott/acceleott/internal/platform/constants"
	"github.com/acceleott/acceleott/internal/platform/ctxutil"
	requestutil "github.com/acceleott/acceleott/internal/platform/request"
	"github.com/acceleott/acceleott/internal/platform/respond"
	"github.com/acceleott/acceleott/internal/platform/validate"
)

// # Definitions & Constructors

// HandlerSettings carries transport-level deployment values.
type HandlerSettings struct {
	// FrontendURL is where verification links land after being consumed.
	FrontendURL string

	// SecureCookie marks the session cookie HTTPS-only.
	SecureCookie bool
}

// Handler implements the /api/auth endpoints.
//
// # Scope
//
// Transport concerns only: status codes, cookies, redirects and JSON.
type Handler struct {
	authService *Service
	settings    HandlerSettings
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service, settings HandlerSettings) *Handler {
	return &Handler{authService: service, settings: settings}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /register       : Creates an unverified account.
//   - GET  /verify/{token} : Consumes an emailed link, redirects to the frontend.
//   - POST /resend         : Issues a fresh verification link.
//   - POST /login          : Sets the session cookie and returns the token.
//   - POST /logout         : Clears the session cookie.
//   - GET  /me             : Returns the profile behind the session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Get("/verify/{token}", handler.verify)
	router.Post("/resend", handler.resend)
	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)
	router.Get("/me", handler.me)

	return router
}

// # Request Payloads

type resendRequest struct {
	Email string `json:"email"`
}

/*
Register handles the creation of a new account.

POST /api/auth/register

Response:
  - 201: Ack
  - 400: VALIDATION_ERROR or DUPLICATE_EMAIL
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input RegisterInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	ack, err := handler.authService.Register(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, ack)
}

/*
Verify consumes the emailed link and sends the browser back to the site.

GET /api/auth/verify/{token}

Response:
  - 302: {FRONTEND_URL}/verify-success or {FRONTEND_URL}/verify-failed
*/
func (handler *Handler) verify(writer http.ResponseWriter, request *http.Request) {
	target := VerifySuccessPath

	if err := handler.authService.VerifyEmail(request.Context(), requestutil.Param(request, FieldToken)); err != nil {
		target = VerifyFailedPath
		if !errors.Is(err, ErrInvalidOrExpiredToken) {
			ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "auth_verify_failed", slog.Any("error", err))
		}
	}

	http.Redirect(writer, request, strings.TrimRight(handler.settings.FrontendURL, "/")+target, http.StatusFound)
}

/*
Resend issues a fresh verification link.

POST /api/auth/resend

Response:
  - 200: Ack (alreadyVerified set when nothing was sent)
  - 404: NOT_FOUND
  - 429: RATE_LIMITED
*/
func (handler *Handler) resend(writer http.ResponseWriter, request *http.Request) {
	var input resendRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	ack, err := handler.authService.ResendVerification(request.Context(), input.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, ack)
}

/*
Login authenticates a verified account.

POST /api/auth/login

Response:
  - 200: LoginResult, plus the session cookie
  - 400: INVALID_CREDENTIALS
  - 403: EMAIL_NOT_VERIFIED
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input LoginInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	result, err := handler.authService.Login(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, handler.sessionCookie(result.Token, result.ExpiresAt))
	respond.OK(writer, result)
}

/*
Logout clears the session cookie. Sessions are stateless, so the token
itself stays valid until it expires.

POST /api/auth/logout
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	cookie := handler.sessionCookie("", time.Unix(0, 0))
	cookie.MaxAge = -1
	http.SetCookie(writer, cookie)

	respond.Message(writer, http.StatusOK, MessageLoggedOut)
}

/*
Me returns the profile of the session holder (cookie or bearer header).

GET /api/auth/me

Response:
  - 200: Profile
  - 401: NOT_AUTHENTICATED or INVALID_TOKEN
  - 404: NOT_FOUND
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	profile, err := handler.authService.GetCurrentAccount(request.Context(), requestutil.SessionToken(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

func (handler *Handler) sessionCookie(value string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    value,
		Path:     constants.SessionCookiePath,
		Expires:  expiresAt,
		MaxAge:   int(constants.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   handler.settings.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}
