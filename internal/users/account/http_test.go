// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/streamvault/internal/platform/apperr"
	"github.com/taibuivan/streamvault/internal/platform/middleware"
	"github.com/taibuivan/streamvault/internal/platform/sec"
	"github.com/taibuivan/streamvault/internal/users/account"
)

const aliceToken = "alice-token"

type staticVerifier struct{}

func (staticVerifier) VerifySession(_ context.Context, token string) (*sec.Principal, error) {
	if token != aliceToken {
		return nil, apperr.Unauthorized("Session is invalid or expired")
	}
	return &sec.Principal{UserID: aliceID, Username: "alice", Role: sec.RoleMember, Token: token}, nil
}

func newRouter(f *fixture) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Authenticate(staticVerifier{}))
	router.Mount("/me", account.NewHandler(f.service).Routes())
	return router
}

func send(t *testing.T, router http.Handler, method, path, token, body string) (int, map[string]any) {
	t.Helper()

	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	decoded := map[string]any{}
	if recorder.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded))
	}
	return recorder.Code, decoded
}

/*
TestHTTP_Profile reads defaults and applies a partial update.
*/
func TestHTTP_Profile(t *testing.T) {
	f := newFixture(t)
	router := newRouter(f)

	status, body := send(t, router, http.MethodGet, "/me/profile", aliceToken, "")
	require.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, "alice", data["display_name"])

	status, body = send(t, router, http.MethodPatch, "/me/profile", aliceToken,
		`{"bio":"Night owl","birth_date":"1990-04-01","timezone":"Asia/Jakarta"}`)
	require.Equal(t, http.StatusOK, status)
	data = body["data"].(map[string]any)
	assert.Equal(t, "Night owl", data["bio"])
	assert.Equal(t, "1990-04-01", data["birth_date"])

	status, body = send(t, router, http.MethodPatch, "/me/profile", aliceToken,
		`{"birth_date":"01/04/1990","avatar_url":"ftp://x"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Len(t, body["details"], 2)

	status, _ = send(t, router, http.MethodGet, "/me/profile", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

/*
TestHTTP_PreferencesAndPIN exercises the parental gate over HTTP.
*/
func TestHTTP_PreferencesAndPIN(t *testing.T) {
	f := newFixture(t)
	router := newRouter(f)

	status, body := send(t, router, http.MethodGet, "/me/preferences", aliceToken, "")
	require.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, "AUTO", data["preferred_quality"])
	assert.Equal(t, false, data["parental_control_enabled"])
	assert.NotContains(t, data, "PINHash")

	status, _ = send(t, router, http.MethodPut, "/me/preferences", aliceToken, `{"preferred_quality":"4K"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = send(t, router, http.MethodPut, "/me/parental-pin", aliceToken, `{"new_pin":"1234"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["data"].(map[string]any)["parental_control_enabled"])

	status, body = send(t, router, http.MethodPut, "/me/preferences", aliceToken, `{"adult_content_enabled":true}`)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, account.CodePINRequired, body["code"])

	status, body = send(t, router, http.MethodPut, "/me/preferences", aliceToken, `{"adult_content_enabled":true,"pin":"1234"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["data"].(map[string]any)["adult_content_enabled"])

	status, body = send(t, router, http.MethodPost, "/me/parental-pin/verify", aliceToken, `{"pin":"4321"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"verified": false}, body["data"])

	status, _ = send(t, router, http.MethodPost, "/me/parental-pin/verify", aliceToken, `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
}
