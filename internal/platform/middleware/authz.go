// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/streamvault/internal/platform/apperr"
	"github.com/taibuivan/streamvault/internal/platform/constants"
	"github.com/taibuivan/streamvault/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/streamvault/internal/platform/request"
	"github.com/taibuivan/streamvault/internal/platform/respond"
	"github.com/taibuivan/streamvault/internal/platform/sec"
)

// SessionVerifier resolves an opaque bearer token into a principal and
// records the heartbeat on the session.
type SessionVerifier interface {
	VerifySession(ctx context.Context, token string) (*sec.Principal, error)
}

var errSessionRejected = apperr.Unauthorized("Session is invalid or expired")

/*
Authenticate attaches the session principal to the request context.

Requests without an Authorization header pass through anonymously. A
malformed header or a rejected token ends the request with 401; verifier
failures of 5xx class are reported as they are, so an outage is not mistaken
for a logout. On success the request logger gains user_id.
*/
func Authenticate(verifier SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.Header.Get(constants.HeaderAuthorization) == "" {
				next.ServeHTTP(writer, request)
				return
			}

			token, err := requestutil.BearerToken(request)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			principal, err := verifier.VerifySession(request.Context(), token)
			if err != nil {
				if appErr := apperr.As(err); appErr == nil || appErr.HTTPStatus < http.StatusInternalServerError {
					err = errSessionRejected
				}
				respond.Error(writer, request, err)
				return
			}

			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(slog.Int64("user_id", principal.UserID)))
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// gate rejects the request with the error returned by check, if any.
func gate(check func(*sec.Principal) error) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal := ctxutil.GetPrincipal(request.Context())
			if principal == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}
			if err := check(principal); err != nil {
				respond.Error(writer, request, err)
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// RequireAuth answers 401 for anonymous requests. Mount it after [Authenticate].
var RequireAuth = gate(func(*sec.Principal) error { return nil })

// RequireRole answers 401 for anonymous requests and 403 below role.
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return gate(func(principal *sec.Principal) error {
		if !principal.Role.AtLeast(role) {
			return apperr.Forbidden("Insufficient permissions")
		}
		return nil
	})
}
