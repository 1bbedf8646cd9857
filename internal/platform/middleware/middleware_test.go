// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acceleott/acceleott/internal/platform/constants"
	"github.com/acceleott/acceleott/internal/platform/ctxutil"
	"github.com/acceleott/acceleott/internal/platform/middleware"
	"github.com/acceleott/acceleott/internal/platform/sec"
)

type stubVerifier map[string]*sec.AuthClaims

func (verifier stubVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	if claims, ok := verifier[token]; ok {
		return claims, nil
	}
	return nil, sec.ErrInvalidSession
}

type stubConfig struct {
	development bool
	origins     []string
}

func (cfg stubConfig) IsDevelopment() bool      { return cfg.development }
func (cfg stubConfig) AllowedOrigins() []string { return cfg.origins }

// echoUser responds with the authenticated user id, or "anonymous".
var echoUser = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
	if claims := ctxutil.GetAuthUser(request.Context()); claims != nil {
		_, _ = writer.Write([]byte(claims.UserID))
		return
	}
	_, _ = writer.Write([]byte("anonymous"))
})

/*
TestAuthenticate covers header and cookie resolution. Unusable tokens leave
the request anonymous instead of rejecting it.
*/
func TestAuthenticate(t *testing.T) {
	verifier := stubVerifier{
		"good":  {UserID: "acc-1", Role: "member"},
		"admin": {UserID: "acc-9", Role: "admin"},
	}
	handler := middleware.Authenticate(verifier)(echoUser)

	tests := []struct {
		name       string
		header     string
		cookie     string
		wantStatus int
		wantBody   string
	}{
		{"anonymous", "", "", http.StatusOK, "anonymous"},
		{"bearer_valid", "Bearer good", "", http.StatusOK, "acc-1"},
		{"bearer_case_insensitive", "bearer admin", "", http.StatusOK, "acc-9"},
		{"bearer_invalid", "Bearer forged", "", http.StatusOK, "anonymous"},
		{"bearer_invalid_beats_cookie", "Bearer forged", "good", http.StatusOK, "anonymous"},
		{"header_malformed", "Token good", "", http.StatusOK, "anonymous"},
		{"header_malformed_falls_back_to_cookie", "Token admin", "good", http.StatusOK, "acc-1"},
		{"cookie_valid", "", "good", http.StatusOK, "acc-1"},
		{"cookie_stale", "", "forged", http.StatusOK, "anonymous"},
		{"header_wins_over_cookie", "Bearer admin", "good", http.StatusOK, "acc-9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: tt.cookie})
			}

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Contains(t, recorder.Body.String(), tt.wantBody)
		})
	}
}

/*
TestRequireRole checks 401 for anonymous and 403 for insufficient roles.
*/
func TestRequireRole(t *testing.T) {
	verifier := stubVerifier{
		"member": {UserID: "acc-1", Role: "member"},
		"admin":  {UserID: "acc-9", Role: "admin"},
	}
	handler := middleware.Authenticate(verifier)(middleware.RequireRole(sec.RoleAdmin)(echoUser))

	tests := map[string]int{
		"":       http.StatusUnauthorized,
		"member": http.StatusForbidden,
		"admin":  http.StatusOK,
	}

	for token, want := range tests {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		if token != "" {
			request.Header.Set("Authorization", "Bearer "+token)
		}
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		assert.Equal(t, want, recorder.Code, token)
	}
}

/*
TestRequireAuth_StaleBearer rejects an expired or forged bearer only on
routes that need a session.
*/
func TestRequireAuth_StaleBearer(t *testing.T) {
	verifier := stubVerifier{"good": {UserID: "acc-1", Role: "member"}}

	protected := middleware.Authenticate(verifier)(middleware.RequireAuth(echoUser))
	public := middleware.Authenticate(verifier)(echoUser)

	request := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	request.Header.Set("Authorization", "Bearer expired")

	recorder := httptest.NewRecorder()
	public.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "anonymous", recorder.Body.String())

	recorder = httptest.NewRecorder()
	protected.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRequireAuth(t *testing.T) {
	handler := middleware.RequireAuth(echoUser)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestCORS verifies that only configured origins are echoed back.
*/
func TestCORS(t *testing.T) {
	strict := middleware.CORS(stubConfig{origins: []string{"https://acceleott.com"}})(echoUser)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Origin", "https://acceleott.com")
	recorder := httptest.NewRecorder()
	strict.ServeHTTP(recorder, request)
	assert.Equal(t, "https://acceleott.com", recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", recorder.Header().Get("Access-Control-Allow-Credentials"))

	request = httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Origin", "https://evil.example")
	recorder = httptest.NewRecorder()
	strict.ServeHTTP(recorder, request)
	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))

	request = httptest.NewRequest(http.MethodOptions, "/", nil)
	request.Header.Set("Origin", "http://localhost:3000")
	recorder = httptest.NewRecorder()
	middleware.CORS(stubConfig{development: true})(echoUser).ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "http://localhost:3000", recorder.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	handler := middleware.RateLimit(ctx, 0.0001, 2)(echoUser)

	codes := make([]int, 0, 3)
	for range 3 {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.RemoteAddr = "203.0.113.7:4000"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		codes = append(codes, recorder.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// Another client has its own bucket.
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "198.51.100.1:4000"
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestPanicRecovery(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	handler := middleware.PanicRecovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(errors.New("boom"))
	}))

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request = request.WithContext(ctxutil.WithLogger(request.Context(), logger))

	require.NotPanics(t, func() { handler.ServeHTTP(recorder, request) })
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, logs.String(), "panic_recovered")
}

/*
TestRequestIDAndLogger verifies correlation IDs reach the access log.
*/
func TestRequestIDAndLogger(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	chain := middleware.RequestID()(
		middleware.StructuredLogger(logger)(
			middleware.Authenticate(stubVerifier{"good": {UserID: "acc-1"}})(echoUser),
		),
	)

	request := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	request.Header.Set("X-Request-ID", "req-fixed")
	request.Header.Set("Authorization", "Bearer good")
	recorder := httptest.NewRecorder()
	chain.ServeHTTP(recorder, request)

	assert.Equal(t, "req-fixed", recorder.Header().Get("X-Request-ID"))
	assert.Contains(t, logs.String(), `"request_id":"req-fixed"`)
	assert.Contains(t, logs.String(), `"user_id":"acc-1"`)
	assert.Contains(t, logs.String(), "http_request_finished")

	recorder = httptest.NewRecorder()
	chain.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
}

func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, "10.0.0.1", middleware.RealIP(request))

	request.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", middleware.RealIP(request))

	request.Header.Set("X-Real-IP", "198.51.100.4")
	assert.Equal(t, "198.51.100.4", middleware.RealIP(request))
}
