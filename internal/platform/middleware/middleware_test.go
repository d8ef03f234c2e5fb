// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/streamvault/internal/platform/apperr"
	"github.com/taibuivan/streamvault/internal/platform/ctxutil"
	"github.com/taibuivan/streamvault/internal/platform/middleware"
	"github.com/taibuivan/streamvault/internal/platform/sec"
)

type stubVerifier struct {
	principal *sec.Principal
	err       error
	calls     int
}

func (verifier *stubVerifier) VerifySession(_ context.Context, token string) (*sec.Principal, error) {
	verifier.calls++
	if verifier.err != nil {
		return nil, verifier.err
	}
	principal := *verifier.principal
	principal.Token = token
	return &principal, nil
}

type stubConfig struct {
	development bool
	origins     []string
}

func (config stubConfig) IsDevelopment() bool      { return config.development }
func (config stubConfig) AllowedOrigins() []string { return config.origins }

// principalEcho writes the resolved user id so tests can observe the context.
func principalEcho() http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		principal := ctxutil.GetPrincipal(request.Context())
		if principal == nil {
			writer.WriteHeader(http.StatusNoContent)
			return
		}
		writer.Header().Set("X-User", principal.Username)
		writer.Header().Set("X-Token", principal.Token)
		writer.WriteHeader(http.StatusOK)
	})
}

/*
TestAuthenticate covers anonymous, valid, invalid and failing verifications.
*/
func TestAuthenticate(t *testing.T) {
	valid := &stubVerifier{principal: &sec.Principal{UserID: 1, Username: "alice", Role: sec.RoleMember}}

	tests := []struct {
		name       string
		verifier   *stubVerifier
		header     string
		wantStatus int
		wantCalls  int
	}{
		{"anonymous", valid, "", http.StatusNoContent, 0},
		{"valid_session", valid, "Bearer tok", http.StatusOK, 1},
		{"malformed_header", valid, "Token tok", http.StatusUnauthorized, 0},
		{"invalid_session", &stubVerifier{err: apperr.Unauthorized("nope")}, "Bearer tok", http.StatusUnauthorized, 1},
		{"storage_failure", &stubVerifier{err: apperr.Internal(errors.New("db down"))}, "Bearer tok", http.StatusInternalServerError, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.verifier.calls = 0
			handler := middleware.Authenticate(tt.verifier)(principalEcho())

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantCalls, tt.verifier.calls)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "alice", recorder.Header().Get("X-User"))
				assert.Equal(t, "tok", recorder.Header().Get("X-Token"))
			}
		})
	}
}

/*
TestRequireRole blocks anonymous and under-privileged callers.
*/
func TestRequireRole(t *testing.T) {
	handler := middleware.RequireRole(sec.RoleAdmin)(principalEcho())

	serve := func(principal *sec.Principal) int {
		request := httptest.NewRequest(http.MethodPatch, "/", nil)
		if principal != nil {
			request = request.WithContext(ctxutil.WithPrincipal(request.Context(), principal))
		}
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve(nil))
	assert.Equal(t, http.StatusForbidden, serve(&sec.Principal{UserID: 2, Role: sec.RoleMember}))
	assert.Equal(t, http.StatusOK, serve(&sec.Principal{UserID: 3, Username: "root", Role: sec.RoleAdmin}))
}

/*
TestRequireAuth rejects requests without a principal.
*/
func TestRequireAuth(t *testing.T) {
	handler := middleware.RequireAuth(principalEcho())

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestCORS allows configured origins only outside development.
*/
func TestCORS(t *testing.T) {
	handler := middleware.CORS(stubConfig{origins: []string{"https://watch.example"}})(principalEcho())

	allowed := httptest.NewRequest(http.MethodGet, "/", nil)
	allowed.Header.Set("Origin", "https://watch.example")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, allowed)
	assert.Equal(t, "https://watch.example", recorder.Header().Get("Access-Control-Allow-Origin"))

	denied := httptest.NewRequest(http.MethodGet, "/", nil)
	denied.Header.Set("Origin", "https://evil.example")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, denied)
	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
}

/*
TestRequestID generates an id when missing and echoes a client-provided one.
*/
func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, recorder.Header().Get("X-Request-ID"))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Request-ID", "client-id")
	handler.ServeHTTP(httptest.NewRecorder(), request)
	assert.Equal(t, "client-id", seen)
}

/*
TestRateLimitWith rejects a client past its burst but keeps other IPs independent.
*/
func TestRateLimitWith(t *testing.T) {
	handler := middleware.RateLimitWith(t.Context(), 0.001, 2)(principalEcho())

	serve := func(ip string) *httptest.ResponseRecorder {
		request := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		request.Header.Set("X-Real-IP", ip)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder
	}

	assert.Equal(t, http.StatusNoContent, serve("203.0.113.1").Code)
	assert.Equal(t, http.StatusNoContent, serve("203.0.113.1").Code)

	limited := serve("203.0.113.1")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.NotEmpty(t, limited.Header().Get("Retry-After"))
	assert.Contains(t, limited.Body.String(), "RATE_LIMITED")

	assert.Equal(t, http.StatusNoContent, serve("203.0.113.2").Code)
}

/*
TestPanicRecovery converts a panic into the standard 500 envelope.
*/
func TestPanicRecovery(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	handler := middleware.PanicRecovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "INTERNAL_ERROR")
	assert.NotContains(t, recorder.Body.String(), "boom")
}

/*
TestRealIP prefers proxy headers over the socket address.
*/
func TestRealIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"socket", nil, "192.0.2.1"},
		{"real_ip", map[string]string{"X-Real-IP": "198.51.100.9"}, "198.51.100.9"},
		{"forwarded_first_hop", map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, "203.0.113.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			for key, value := range tt.headers {
				request.Header.Set(key, value)
			}
			assert.Equal(t, tt.want, middleware.RealIP(request))
		})
	}
}
