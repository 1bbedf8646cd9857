// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

package middleware

import (
	"net/http"

	"github.com/acceleott/acceleott/internal/platform/apperr"
	"github.com/acceleott/acceleott/internal/platform/ctxutil"
	requestutil "github.com/acceleott/acceleott/internal/platform/request"
	"github.com/acceleott/acceleott/internal/platform/respond"
	"github.com/acceleott/acceleott/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify session tokens in middleware.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// Authenticate resolves the caller from an Authorization header or the session cookie.
//
// # Flow
//  1. The token is taken from the bearer header, or the session cookie when no
//     bearer is sent.
//  2. A missing, malformed or invalid token leaves the request anonymous, so
//     public routes such as login keep working. [RequireAuth] and
//     [RequireRole] enforce access where it matters.
//  3. Verified [*sec.AuthClaims] are injected into the request context.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			token := requestutil.SessionToken(request)
			if token == "" {
				next.ServeHTTP(writer, request)
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				ctxutil.GetLogger(request.Context()).DebugContext(request.Context(), "session_token_rejected")
				next.ServeHTTP(writer, request)
				return
			}

			next.ServeHTTP(writer, withClaims(request, claims))
		})
	}
}

func withClaims(request *http.Request, claims *sec.AuthClaims) *http.Request {
	recordIdentity(request.Context(), claims.UserID)
	return request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
}

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests whose session role is below role.
// It implies [RequireAuth].
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetAuthUser(request.Context())

			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			if !sec.UserRole(claims.Role).AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
