// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr classifies pgx errors into the apperr vocabulary, so store
// implementations never leak driver details to clients.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/streamvault/internal/platform/apperr"
)

/*
Wrap maps err onto an application error.

  - pgx.ErrNoRows: 404 NOT_FOUND
  - unique_violation: 409 CONFLICT, the constraint name kept in the cause
  - anything else: 500 INTERNAL_ERROR

The action is a snake_case label such as "postgres_session_create"; the
cause reads "<action>_failed: ...".
*/
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	if IsNoRows(err) {
		return apperr.NotFound("Resource")
	}
	if constraint, ok := UniqueViolation(err); ok {
		return apperr.Conflict("Resource already exists").
			WithCause(fmt.Errorf("%s_failed: constraint %s: %w", action, constraint, err))
	}
	return apperr.Internal(fmt.Errorf("%s_failed: %w", action, err))
}

// UniqueViolation returns the violated constraint of a 23505 error.
func UniqueViolation(err error) (string, bool) {
	var pgError *pgconn.PgError
	if !errors.As(err, &pgError) || pgError.Code != pgerrcode.UniqueViolation {
		return "", false
	}
	return pgError.ConstraintName, true
}

func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
