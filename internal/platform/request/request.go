// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/streamvault/internal/platform/apperr"
	"github.com/taibuivan/streamvault/internal/platform/constants"
	"github.com/taibuivan/streamvault/internal/platform/ctxutil"
	"github.com/taibuivan/streamvault/internal/platform/sec"
	"github.com/taibuivan/streamvault/internal/platform/validate"
)

// maxBodyBytes caps JSON payloads accepted by [DecodeJSON].
const maxBodyBytes = 1 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, request.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// Payload is a request body that knows its own field rules.
//
// Validate may normalise fields (trimming, folding) before checking them, so
// it is declared on the pointer receiver.
type Payload interface {
	Validate(validator *validate.Validator)
}

/*
Bind decodes the body into payload and runs payload.Validate.

Returns:
  - error: validate.ErrInvalidJSON, a VALIDATION_ERROR listing every failed field, or nil
*/
func Bind(request *http.Request, payload Payload) error {
	if err := DecodeJSON(request, payload); err != nil {
		return err
	}

	validator := &validate.Validator{}
	payload.Validate(validator)
	return validator.Err()
}

/*
Int64Param parses a named URL parameter as a positive numeric identifier.

Returns:
  - int64: The parsed identifier
  - error: Validation error naming the parameter when it is not a positive integer
*/
func Int64Param(request *http.Request, name string) (int64, error) {
	value, err := strconv.ParseInt(chi.URLParam(request, name), 10, 64)
	if err != nil || value <= 0 {
		return 0, validate.RequiredError(name, "Must be a positive integer")
	}
	return value, nil
}

/*
BearerToken extracts the opaque session token from the Authorization header.

Returns:
  - string: The raw token
  - error: apperr.Unauthorized when the header is missing or malformed
*/
func BearerToken(request *http.Request) (string, error) {
	header := request.Header.Get(constants.HeaderAuthorization)
	if header == "" {
		return "", apperr.Unauthorized("Authentication required")
	}

	scheme, token, found := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, constants.BearerScheme) || token == "" {
		return "", apperr.Unauthorized("Invalid authorization format")
	}

	return token, nil
}

/*
Principal extracts the authenticated principal from the request context.

Returns nil if the request is not authenticated.
*/
func Principal(request *http.Request) *sec.Principal {
	return ctxutil.GetPrincipal(request.Context())
}

/*
RequiredPrincipal ensures the request is authenticated and returns the principal.

Returns:
  - *sec.Principal: The authenticated identity
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredPrincipal(request *http.Request) (*sec.Principal, error) {
	principal := ctxutil.GetPrincipal(request.Context())
	if principal == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return principal, nil
}

/*
RequiredUserID returns the ID of the currently logged-in user.

Returns:
  - int64: User ID
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredUserID(request *http.Request) (int64, error) {
	principal, err := RequiredPrincipal(request)
	if err != nil {
		return 0, err
	}
	return principal.UserID, nil
}
