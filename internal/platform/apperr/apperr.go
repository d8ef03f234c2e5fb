// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr is the error vocabulary shared by services and handlers.

An [AppError] pairs an HTTP status with a machine code and a message that is
safe to show to clients. Anything else the server knows about the failure
goes into Cause, which is logged and never rendered.

Services return AppErrors (or wrap them with fmt.Errorf and %w); the respond
package turns them into the JSON error envelope.
*/
package apperr

import (
	"errors"
	"fmt"
	"maps"
	"net/http"
)

// Machine codes of the generic errors. Domains add their own via [AppError.WithCode].
const (
	CodeNotFound         = "NOT_FOUND"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeConflict         = "CONFLICT"
	CodeValidation       = "VALIDATION_ERROR"
	CodeUnprocessable    = "UNPROCESSABLE"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeRateLimited      = "RATE_LIMITED"
	CodeInternal         = "INTERNAL_ERROR"
)

// AppError is an error with a client-facing rendering.
type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"error"`
	HTTPStatus int            `json:"-"`
	Details    []FieldError   `json:"details,omitempty"`
	Meta       map[string]any `json:"meta,omitempty"`

	// Cause is for logs only.
	Cause error `json:"-"`
}

// FieldError is one failed input field of a VALIDATION_ERROR.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Cause }

func newError(status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// # Constructors

// NotFound reports a missing resource: NotFound("Session") reads "Session not found".
func NotFound(resource string) *AppError {
	return newError(http.StatusNotFound, CodeNotFound, resource+" not found")
}

func Unauthorized(message string) *AppError {
	return newError(http.StatusUnauthorized, CodeUnauthorized, message)
}

func Forbidden(message string) *AppError {
	return newError(http.StatusForbidden, CodeForbidden, message)
}

// Conflict reports a uniqueness clash or a state that forbids the operation.
func Conflict(message string) *AppError {
	return newError(http.StatusConflict, CodeConflict, message)
}

// ValidationError is a 400 listing each offending field.
func ValidationError(message string, details ...FieldError) *AppError {
	err := newError(http.StatusBadRequest, CodeValidation, message)
	err.Details = details
	return err
}

// Locked is a 423. The code is always domain specific.
func Locked(code, message string) *AppError {
	return newError(http.StatusLocked, code, message)
}

func Unprocessable(message string) *AppError {
	return newError(http.StatusUnprocessableEntity, CodeUnprocessable, message)
}

func MethodNotAllowed() *AppError {
	return newError(http.StatusMethodNotAllowed, CodeMethodNotAllowed, "Method not allowed")
}

func RateLimited(retryAfterSeconds int) *AppError {
	return newError(http.StatusTooManyRequests, CodeRateLimited,
		fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds))
}

// Internal hides cause behind a generic message.
func Internal(cause error) *AppError {
	err := newError(http.StatusInternalServerError, CodeInternal, "An unexpected error occurred")
	err.Cause = cause
	return err
}

// # Builders
//
// Builders copy the receiver, so package-level sentinels stay immutable.

func (e *AppError) WithCode(code string) *AppError {
	clone := *e
	clone.Code = code
	return &clone
}

func (e *AppError) WithMeta(key string, value any) *AppError {
	clone := *e
	clone.Meta = maps.Clone(e.Meta)
	if clone.Meta == nil {
		clone.Meta = make(map[string]any, 1)
	}
	clone.Meta[key] = value
	return &clone
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

// # Inspection

// As returns the first [*AppError] in err's chain, or nil.
func As(err error) *AppError {
	var target *AppError
	if errors.As(err, &target) {
		return target
	}
	return nil
}

func IsAppError(err error) bool {
	return As(err) != nil
}

func IsNotFound(err error) bool {
	target := As(err)
	return target != nil && target.HTTPStatus == http.StatusNotFound
}

func HasCode(err error, code string) bool {
	target := As(err)
	return target != nil && target.Code == code
}
