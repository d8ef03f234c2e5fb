// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"errors"
	"time"

	"github.com/taibuivan/streamvault/internal/platform/apperr"
)

// # Error Codes

const (
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAccountNotActive   = "ACCOUNT_NOT_ACTIVE"
	CodeAccountLocked      = "ACCOUNT_LOCKED"
	CodeSessionInvalid     = "SESSION_INVALID"
	CodeTokenInvalid       = "TOKEN_INVALID"
)

// # Sentinel Errors

var (
	// ErrInvalidCredentials covers both an unknown identifier and a wrong password.
	ErrInvalidCredentials = apperr.Unauthorized("Invalid login credentials").WithCode(CodeInvalidCredentials)

	// ErrAccountNotActive is returned for INACTIVE, SUSPENDED and BANNED accounts.
	ErrAccountNotActive = apperr.Forbidden("Account is not active").WithCode(CodeAccountNotActive)

	// ErrSecurityRecordMissing marks a broken account invariant. Always wrapped as Internal.
	ErrSecurityRecordMissing = errors.New("auth: account security record missing")

	// ErrSessionNotFound and ErrSessionInvalid render identically on the wire.
	ErrSessionNotFound = apperr.Unauthorized("Session is invalid or expired").WithCode(CodeSessionInvalid)
	ErrSessionInvalid  = apperr.Unauthorized("Session is invalid or expired").WithCode(CodeSessionInvalid)

	// ErrTokenInvalid is returned for unknown, expired or consumed one-time tokens.
	ErrTokenInvalid = apperr.Unprocessable("Token is invalid or expired").WithCode(CodeTokenInvalid)

	// ErrWrongPassword is returned when a signed-in user confirms with the wrong password.
	ErrWrongPassword = apperr.Forbidden("Current password is incorrect").WithCode(CodeInvalidCredentials)
)

// metaLockedUntil is the error metadata key carrying the unlock instant.
const metaLockedUntil = "locked_until"

// AccountLockedError builds the 423 error carrying the unlock instant.
func AccountLockedError(until time.Time) *apperr.AppError {
	return apperr.Locked(CodeAccountLocked, "Account is temporarily locked").
		WithMeta(metaLockedUntil, until.UTC())
}

// LockedUntil extracts the unlock instant from an [AccountLockedError].
func LockedUntil(err error) (time.Time, bool) {
	appError := apperr.As(err)
	if appError == nil || appError.Code != CodeAccountLocked {
		return time.Time{}, false
	}
	until, ok := appError.Meta[metaLockedUntil].(time.Time)
	return until, ok
}

// IsSessionError reports whether err means the caller must authenticate again.
func IsSessionError(err error) bool {
	return errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrSessionInvalid)
}
