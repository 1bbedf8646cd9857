// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

package requestutil_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	requestutil "github.com/acceleott/acceleott/internal/platform/request"
)

/*
TestSessionToken resolves the bearer header before the session cookie.
*/
func TestSessionToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{"none", "", "", ""},
		{"cookie_only", "", "from-cookie", "from-cookie"},
		{"bearer_only", "Bearer from-header", "", "from-header"},
		{"bearer_wins", "Bearer from-header", "from-cookie", "from-header"},
		{"malformed_header_falls_back", "Token from-header", "from-cookie", "from-cookie"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				request.AddCookie(&http.Cookie{Name: "token", Value: tt.cookie})
			}

			assert.Equal(t, tt.want, requestutil.SessionToken(request))
		})
	}
}
