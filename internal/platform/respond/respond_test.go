// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

package respond_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acceleott/acceleott/internal/platform/apperr"
	"github.com/acceleott/acceleott/internal/platform/respond"
)

func TestMessage(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Message(recorder, http.StatusCreated, "done")

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.JSONEq(t, `{"data":{"message":"done"}}`, recorder.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", recorder.Header().Get("Content-Type"))
}

/*
TestError_Envelope checks status mapping and that causes never leak.
*/
func TestError_Envelope(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"app_error", apperr.NotFound("Account"), http.StatusNotFound, "NOT_FOUND"},
		{"wrapped_app_error", fmt.Errorf("svc: %w", apperr.Forbidden("nope")), http.StatusForbidden, "FORBIDDEN"},
		{"plain_error", errors.New("pq: relation does not exist"), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"dependency", apperr.DependencyFailure("Mail failed", errors.New("smtp 421")), http.StatusInternalServerError, "DEPENDENCY_FAILURE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodGet, "/", nil)

			respond.Error(recorder, request, tt.err)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			var body respond.ErrorEnvelope
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotContains(t, recorder.Body.String(), "pq:")
			assert.NotContains(t, recorder.Body.String(), "smtp 421")
		})
	}
}

func TestError_ValidationDetails(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/", nil)

	respond.Error(recorder, request, apperr.ValidationError("Validation failed",
		apperr.FieldError{Field: "email", Message: "This field is required"},
	))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.JSONEq(t,
		`{"error":"Validation failed","code":"VALIDATION_ERROR","details":[{"field":"email","message":"This field is required"}]}`,
		recorder.Body.String(),
	)
}
