// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/streamvault/internal/platform/apperr"
	"github.com/taibuivan/streamvault/internal/platform/database/schema"
	"github.com/taibuivan/streamvault/internal/platform/dberr"
	"github.com/taibuivan/streamvault/internal/platform/postgres"
)

// # Session Repository

// PostgresSessionRepository implements [SessionRepository] on users.session.
type PostgresSessionRepository struct {
	db postgres.Querier
}

// NewSessionRepository creates a new PostgreSQL implementation of the SessionRepository.
func NewSessionRepository(db postgres.Querier) *PostgresSessionRepository {
	return &PostgresSessionRepository{db: db}
}

// sessionColumns lists the select list with nullable text columns coalesced.
func sessionColumns() string {
	table := schema.UserSession
	return fmt.Sprintf("%s, %s, %s, COALESCE(%s, ''), COALESCE(%s, ''), COALESCE(%s, ''), %s, %s, %s, %s, %s",
		table.ID, table.UserID, table.TokenHash, table.IPAddress, table.UserAgent, table.DeviceInfo,
		table.LoginAt, table.LastActivity, table.LogoutAt, table.IsActive, table.ExpiresAt)
}

func scanSession(row pgx.Row) (*Session, error) {
	session := &Session{}
	err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.TokenHash,
		&session.IPAddress,
		&session.UserAgent,
		&session.DeviceInfo,
		&session.LoginAt,
		&session.LastActivity,
		&session.LogoutAt,
		&session.IsActive,
		&session.ExpiresAt,
	)
	return session, err
}

/*
Create persists a new session.

Parameters:
  - context: context.Context
  - session: *Session (TokenHash set, ID assigned on success)

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresSessionRepository) Create(context context.Context, session *Session) error {
	table := schema.UserSession
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8)
		RETURNING %s`,
		table.Table,
		table.UserID, table.TokenHash, table.IPAddress, table.UserAgent, table.DeviceInfo,
		table.LoginAt, table.IsActive, table.ExpiresAt,
		table.ID)

	err := repository.db.QueryRow(context, query,
		session.UserID,
		session.TokenHash,
		session.IPAddress,
		session.UserAgent,
		session.DeviceInfo,
		session.LoginAt,
		session.IsActive,
		session.ExpiresAt,
	).Scan(&session.ID)

	if err != nil {
		return dberr.Wrap(err, "postgres_session_create")
	}
	return nil
}

func (repository *PostgresSessionRepository) findOne(context context.Context, action, column string, argument any) (*Session, error) {
	table := schema.UserSession
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, sessionColumns(), table.Table, column)

	session, err := scanSession(repository.db.QueryRow(context, query, argument))
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, apperr.NotFound("Session")
		}
		return nil, dberr.Wrap(err, action)
	}
	return session, nil
}

// FindByTokenHash retrieves a session by the digest of its bearer token.
func (repository *PostgresSessionRepository) FindByTokenHash(context context.Context, tokenHash string) (*Session, error) {
	return repository.findOne(context, "postgres_session_find_by_token", schema.UserSession.TokenHash, tokenHash)
}

// FindByID retrieves a session by primary key.
func (repository *PostgresSessionRepository) FindByID(context context.Context, id int64) (*Session, error) {
	return repository.findOne(context, "postgres_session_find_by_id", schema.UserSession.ID, id)
}

// ListByUser returns the user's sessions, newest login first.
func (repository *PostgresSessionRepository) ListByUser(context context.Context, userID int64, activeOnly bool) ([]*Session, error) {
	table := schema.UserSession
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1 AND ($2 = FALSE OR %s)
		ORDER BY %s DESC`,
		sessionColumns(), table.Table, table.UserID, table.IsActive, table.LoginAt)

	rows, err := repository.db.Query(context, query, userID, activeOnly)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_session_list")
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "postgres_session_scan")
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "postgres_session_rows")
	}
	return sessions, nil
}

// Touch moves the heartbeat of a session.
func (repository *PostgresSessionRepository) Touch(context context.Context, id int64, now time.Time) error {
	table := schema.UserSession
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`, table.Table, table.LastActivity, table.ID)

	if _, err := repository.db.Exec(context, query, id, now); err != nil {
		return dberr.Wrap(err, "postgres_session_touch")
	}
	return nil
}

/*
End deactivates a session that is still active.

Parameters:
  - context: context.Context
  - id: int64
  - now: time.Time (recorded as logoutAt)

Returns:
  - bool: false when the session was already inactive
  - error: Database errors
*/
func (repository *PostgresSessionRepository) End(context context.Context, id int64, now time.Time) (bool, error) {
	table := schema.UserSession
	query := fmt.Sprintf(`UPDATE %s SET %s = FALSE, %s = $2 WHERE %s = $1 AND %s`,
		table.Table, table.IsActive, table.LogoutAt, table.ID, table.IsActive)

	tag, err := repository.db.Exec(context, query, id, now)
	if err != nil {
		return false, dberr.Wrap(err, "postgres_session_end")
	}
	return tag.RowsAffected() > 0, nil
}

// Extend moves the expiry of a session.
func (repository *PostgresSessionRepository) Extend(context context.Context, id int64, expiresAt time.Time) error {
	table := schema.UserSession
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`, table.Table, table.ExpiresAt, table.ID)

	if _, err := repository.db.Exec(context, query, id, expiresAt); err != nil {
		return dberr.Wrap(err, "postgres_session_extend")
	}
	return nil
}

// DeactivateAllByUser clears isActive on every session of a user.
func (repository *PostgresSessionRepository) DeactivateAllByUser(context context.Context, userID int64) (int64, error) {
	table := schema.UserSession
	query := fmt.Sprintf(`UPDATE %s SET %s = FALSE WHERE %s = $1 AND %s`,
		table.Table, table.IsActive, table.UserID, table.IsActive)

	tag, err := repository.db.Exec(context, query, userID)
	if err != nil {
		return 0, dberr.Wrap(err, "postgres_session_deactivate_all")
	}
	return tag.RowsAffected(), nil
}

// DeactivateOthers clears isActive on every session of a user except keepID.
func (repository *PostgresSessionRepository) DeactivateOthers(context context.Context, userID, keepID int64) (int64, error) {
	table := schema.UserSession
	query := fmt.Sprintf(`UPDATE %s SET %s = FALSE WHERE %s = $1 AND %s <> $2 AND %s`,
		table.Table, table.IsActive, table.UserID, table.ID, table.IsActive)

	tag, err := repository.db.Exec(context, query, userID, keepID)
	if err != nil {
		return 0, dberr.Wrap(err, "postgres_session_deactivate_others")
	}
	return tag.RowsAffected(), nil
}

// CountActiveByUser counts the sessions of a user that still carry the active flag.
func (repository *PostgresSessionRepository) CountActiveByUser(context context.Context, userID int64) (int64, error) {
	table := schema.UserSession
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1 AND %s`, table.Table, table.UserID, table.IsActive)

	var count int64
	if err := repository.db.QueryRow(context, query, userID).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "postgres_session_count_active")
	}
	return count, nil
}
