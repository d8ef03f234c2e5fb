// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package constants holds the fixed values shared across platform packages:
// HTTP server timing, per-IP rate budgets, header names and Redis key prefixes.
// Anything an operator may want to tune lives in config instead.
package constants

import "time"

const (
	AppName    = "streamvault-api"
	AppVersion = "0.1.0-dev"
)

// # HTTP Server

const (
	DefaultReadHeaderTimeout = 2 * time.Second
	DefaultReadTimeout       = 5 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultIdleTimeout       = 2 * time.Minute

	// GlobalRequestTimeout cancels the request context of a slow handler.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout bounds the drain of in-flight requests on SIGTERM.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting (token bucket per client IP)

const (
	DefaultRateLimitRPS   = 100.0
	DefaultRateLimitBurst = 150

	// Credential endpoints get a tighter budget on top of the global one.
	CredentialRateLimitRPS   = 5.0
	CredentialRateLimitBurst = 20

	// Buckets idle for RateLimitClientTTL are dropped every RateLimitCleanupInterval.
	RateLimitCleanupInterval = time.Minute
	RateLimitClientTTL       = 3 * time.Minute
)

// # Headers

const (
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderDeviceInfo    = "X-Device-Info"

	// BearerScheme is compared case-insensitively.
	BearerScheme = "bearer"
)

// # Health Payload Keys

const (
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Redis Key Prefixes

const (
	RedisPrefixResetToken  = "auth:reset_token:"
	RedisPrefixVerifyToken = "auth:verify_token:"
)
