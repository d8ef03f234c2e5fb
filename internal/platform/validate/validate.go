// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package validate collects field errors for a decoded request payload.

A handler builds one [Validator] per request, chains the rules it needs and
calls [Validator.Err] once. Every failed rule is kept, so the client sees all
problems of a payload in a single VALIDATION_ERROR response.

	err := (&validate.Validator{}).
		Required("email", input.Email).
		Email("email", input.Email).
		Err()
*/
package validate

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/streamvault/internal/platform/apperr"
)

const failedMessage = "Validation failed"

var (
	// Handles never contain "@", so they cannot collide with email identifiers.
	handlePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
	digitsPattern = regexp.MustCompile(`^[0-9]+$`)

	// ErrInvalidJSON is returned by request decoding for malformed bodies.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")
)

// Validator accumulates field errors. The zero value is ready; it is not
// safe for concurrent use.
type Validator struct {
	errs []apperr.FieldError
}

// check records message for field when ok is false.
func (v *Validator) check(ok bool, field, message string) *Validator {
	if !ok {
		v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
	}
	return v
}

// # Presence and Length

func (v *Validator) Required(field, value string) *Validator {
	return v.check(strings.TrimSpace(value) != "", field, "This field is required")
}

// MinLen and MaxLen count runes, not bytes.
func (v *Validator) MinLen(field, value string, n int) *Validator {
	return v.check(utf8.RuneCountInString(value) >= n, field, fmt.Sprintf("Minimum %d characters", n))
}

func (v *Validator) MaxLen(field, value string, n int) *Validator {
	return v.check(utf8.RuneCountInString(value) <= n, field, fmt.Sprintf("Maximum %d characters", n))
}

// Range checks lo <= value <= hi.
func (v *Validator) Range(field string, value, lo, hi int) *Validator {
	return v.check(value >= lo && value <= hi, field, fmt.Sprintf("Must be between %d and %d", lo, hi))
}

// # Formats

// Email accepts a bare RFC 5322 address; display names are rejected.
func (v *Validator) Email(field, value string) *Validator {
	address, err := mail.ParseAddress(value)
	return v.check(err == nil && address.Address == value, field, "Must be a valid email address")
}

func (v *Validator) Username(field, value string) *Validator {
	return v.check(handlePattern.MatchString(value), field, "Must contain only letters, digits, '.', '_' or '-'")
}

func (v *Validator) Digits(field, value string) *Validator {
	return v.check(digitsPattern.MatchString(value), field, "Must contain only digits")
}

// URL requires an absolute http or https URL with a host.
func (v *Validator) URL(field, value string) *Validator {
	parsed, err := url.Parse(value)
	ok := err == nil && parsed.Host != "" && (parsed.Scheme == "http" || parsed.Scheme == "https")
	return v.check(ok, field, "Must be a valid http(s) URL")
}

func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	return v.check(slices.Contains(allowed, value), field, "Must be one of: "+strings.Join(allowed, ", "))
}

// Custom records message when failed is true.
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	return v.check(!failed, field, message)
}

// # Result

// Err is nil when every rule passed, otherwise a VALIDATION_ERROR listing them.
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return apperr.ValidationError(failedMessage, slices.Clone(v.errs)...)
}

func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// RequiredError builds a one-field VALIDATION_ERROR outside a chain.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError(failedMessage, apperr.FieldError{Field: field, Message: message})
}
