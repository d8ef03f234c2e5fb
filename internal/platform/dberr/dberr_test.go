// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/streamvault/internal/platform/apperr"
	"github.com/taibuivan/streamvault/internal/platform/dberr"
)

/*
TestWrap classifies storage errors into application errors.
*/
func TestWrap(t *testing.T) {
	assert.Nil(t, dberr.Wrap(nil, "noop"))

	notFound := dberr.Wrap(fmt.Errorf("scan: %w", pgx.ErrNoRows), "postgres_user_find")
	assert.True(t, apperr.IsNotFound(notFound))

	unique := &pgconn.PgError{Code: "23505", ConstraintName: "account_usernamekey_key"}
	conflict := apperr.As(dberr.Wrap(unique, "postgres_user_create"))
	require.NotNil(t, conflict)
	assert.Equal(t, http.StatusConflict, conflict.HTTPStatus)
	assert.Nil(t, conflict.Meta)

	constraint, ok := dberr.UniqueViolation(fmt.Errorf("insert: %w", unique))
	assert.True(t, ok)
	assert.Equal(t, "account_usernamekey_key", constraint)
	assert.ErrorIs(t, conflict, unique)

	internal := apperr.As(dberr.Wrap(errors.New("connection reset"), "postgres_user_create"))
	require.NotNil(t, internal)
	assert.Equal(t, http.StatusInternalServerError, internal.HTTPStatus)
	assert.Contains(t, internal.Cause.Error(), "postgres_user_create_failed")
}
