package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAdminTokenAuthenticator(t *testing.T) {
	auth := NewAdminTokenAuthenticator("hunter2")
	handler := auth.Middleware(okHandler())

	testCases := []struct {
		name     string
		decorate func(r *http.Request)
		want     int
	}{
		{
			name:     "custom header",
			decorate: func(r *http.Request) { r.Header.Set(TokenHeader, "hunter2") },
			want:     http.StatusOK,
		},
		{
			name:     "bearer header",
			decorate: func(r *http.Request) { r.Header.Set("Authorization", "Bearer hunter2") },
			want:     http.StatusOK,
		},
		{
			name:     "wrong token",
			decorate: func(r *http.Request) { r.Header.Set(TokenHeader, "nope") },
			want:     http.StatusUnauthorized,
		},
		{
			name:     "no token",
			decorate: func(r *http.Request) {},
			want:     http.StatusUnauthorized,
		},
		{
			name:     "custom header wins over bearer",
			decorate: func(r *http.Request) {
				r.Header.Set(TokenHeader, "hunter2")
				r.Header.Set("Authorization", "Bearer nope")
			},
			want: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/@omnitron/api/users", nil)
			tc.decorate(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestAdminTokenAuthenticatorEmptyToken(t *testing.T) {
	auth := NewAdminTokenAuthenticator("")
	handler := auth.Middleware(okHandler())

	req := httptest.NewRequest("GET", "/@omnitron/api/users", nil)
	req.Header.Set(TokenHeader, "")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
