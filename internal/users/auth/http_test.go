// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/streamvault/internal/platform/middleware"
	"github.com/taibuivan/streamvault/internal/users/auth"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
	Code  string          `json:"code"`
	Meta  map[string]any  `json:"meta"`
}

func newRouter(f *fixture) http.Handler {
	handler := auth.NewHandler(f.service)

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(f.service))
	router.Mount("/auth", handler.Routes())
	router.Mount("/admin", handler.AdminRoutes())
	return router
}

func call(t *testing.T, router http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}

	request := httptest.NewRequest(method, path, &payload)
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	var decoded envelope
	if recorder.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded))
	}
	return recorder, decoded
}

/*
TestHTTP_SessionLifecycle drives register, login, validate and logout over HTTP.
*/
func TestHTTP_SessionLifecycle(t *testing.T) {
	f := newFixture(t)
	router := newRouter(f)

	recorder, _ := call(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": alicePassword,
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder, body := call(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"username_or_email": "Alice@Example.com",
		"password":          alicePassword,
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	var session struct {
		Token string `json:"session_token"`
		User  struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &session))
	require.NotEmpty(t, session.Token)
	assert.Equal(t, "alice", session.User.Username)

	recorder, body = call(t, router, http.MethodGet, "/auth/validate", session.Token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.NotContains(t, string(body.Data), "session_token")

	recorder, body = call(t, router, http.MethodGet, "/auth/sessions", session.Token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, string(body.Data), `"active":1`)

	recorder, body = call(t, router, http.MethodPost, "/auth/logout", session.Token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"logged_out":true}`, string(body.Data))

	recorder, _ = call(t, router, http.MethodGet, "/auth/validate", session.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder, _ = call(t, router, http.MethodGet, "/auth/validate", "", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestHTTP_LoginErrors maps each rejection onto its status and code.
*/
func TestHTTP_LoginErrors(t *testing.T) {
	f := newFixture(t)
	router := newRouter(f)
	f.register(t, "alice", "alice@example.com")

	wrong := map[string]string{"username_or_email": "alice", "password": wrongPassword}
	for range 5 {
		recorder, body := call(t, router, http.MethodPost, "/auth/login", "", wrong)
		require.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, auth.CodeInvalidCredentials, body.Code)
	}

	recorder, body := call(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"username_or_email": "alice",
		"password":          alicePassword,
	})
	require.Equal(t, http.StatusLocked, recorder.Code)
	assert.Equal(t, auth.CodeAccountLocked, body.Code)
	assert.Equal(t, "2026-01-01T00:30:00Z", body.Meta["locked_until"])

	recorder, body = call(t, router, http.MethodPost, "/auth/login", "", map[string]string{"password": "x"})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
}

/*
TestHTTP_RegisterValidation rejects malformed handles before the service runs.
*/
func TestHTTP_RegisterValidation(t *testing.T) {
	f := newFixture(t)
	router := newRouter(f)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"bad_email", map[string]string{"username": "alice", "email": "nope", "password": alicePassword}},
		{"short_password", map[string]string{"username": "alice", "email": "a@example.com", "password": "short"}},
		{"username_with_at", map[string]string{"username": "al@ce", "email": "a@example.com", "password": alicePassword}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder, body := call(t, router, http.MethodPost, "/auth/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, recorder.Code)
			assert.Equal(t, "VALIDATION_ERROR", body.Code)
		})
	}
}

/*
TestHTTP_AdminStatus requires the admin role.
*/
func TestHTTP_AdminStatus(t *testing.T) {
	f := newFixture(t)
	router := newRouter(f)
	user := f.register(t, "alice", "alice@example.com")
	session := f.mustLogin(t)

	path := "/admin/users/" + jsonNumber(user.ID) + "/status"
	recorder, _ := call(t, router, http.MethodPatch, path, session.Token, map[string]string{"status": "BANNED"})
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func jsonNumber(id int64) string {
	encoded, _ := json.Marshal(id)
	return string(encoded)
}
