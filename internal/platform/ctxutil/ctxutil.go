// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ctxutil stores request-scoped values on a [context.Context].

Middleware writes the request ID, the scoped logger and the authenticated
principal; services and handlers read them back. Keys are of an unexported
type, so no other package can read or overwrite them by accident.
*/
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/streamvault/internal/platform/sec"
)

type contextKey uint8

const (
	requestIDKey contextKey = iota
	loggerKey
	principalKey
)

// WithRequestID attaches the X-Request-ID correlation value.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns "" outside a request.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLogger falls back to [slog.Default], so callers never nil-check.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

func WithPrincipal(ctx context.Context, principal *sec.Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// GetPrincipal returns nil for anonymous requests.
func GetPrincipal(ctx context.Context) *sec.Principal {
	principal, _ := ctx.Value(principalKey).(*sec.Principal)
	return principal
}
