// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/streamvault/internal/platform/apperr"
	"github.com/taibuivan/streamvault/internal/platform/database/schema"
	"github.com/taibuivan/streamvault/internal/platform/dberr"
	"github.com/taibuivan/streamvault/internal/platform/postgres"
	"github.com/taibuivan/streamvault/internal/users/activity"
	"github.com/taibuivan/streamvault/pkg/identifier"
)

// # Unit of Work

// queryStore binds every repository to the same [postgres.Querier].
type queryStore struct {
	db postgres.Querier
}

func (store queryStore) Users() UserRepository         { return NewUserRepository(store.db) }
func (store queryStore) Security() SecurityRepository  { return NewSecurityRepository(store.db) }
func (store queryStore) Sessions() SessionRepository   { return NewSessionRepository(store.db) }
func (store queryStore) Activity() activity.Repository { return activity.NewRepository(store.db) }

// PostgresStore implements [Transactor] on a connection pool.
type PostgresStore struct {
	queryStore
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store whose non-transactional calls use pool directly.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{queryStore: queryStore{db: pool}, pool: pool}
}

// WithinTransaction implements [Transactor].
func (store *PostgresStore) WithinTransaction(context context.Context, fn func(store Store) error) error {
	return postgres.WithinTx(context, store.pool, func(tx pgx.Tx) error {
		return fn(queryStore{db: tx})
	})
}

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	db postgres.Querier
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(db postgres.Querier) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Status,
		&user.Role,
		&user.EmailVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

func (repository *PostgresUserRepository) findOne(context context.Context, action, where string, argument any) (*User, error) {
	table := schema.UserAccount
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s LIMIT 1`,
		strings.Join(table.Columns(), ", "), table.Table, where)

	user, err := scanUser(repository.db.QueryRow(context, query, argument))
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, apperr.NotFound("User")
		}
		return nil, dberr.Wrap(err, action)
	}
	return user, nil
}

// FindByID retrieves an account by primary key.
func (repository *PostgresUserRepository) FindByID(context context.Context, id int64) (*User, error) {
	return repository.findOne(context, "postgres_user_find_by_id", schema.UserAccount.ID+" = $1", id)
}

/*
FindByIdentifier resolves a username or an email address to an account.

Description: Input containing "@" is matched against the email key, anything
else against the username key. Both keys are folded, so the match is
case-insensitive and tolerant of full-width characters.

Parameters:
  - context: context.Context
  - raw: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByIdentifier(context context.Context, raw string) (*User, error) {
	column := schema.UserAccount.UsernameKey
	if identifier.IsEmail(raw) {
		column = schema.UserAccount.EmailKey
	}
	return repository.findOne(context, "postgres_user_find_by_identifier", column+" = $1", identifier.Key(raw))
}

// FindByEmail retrieves an account by email, case-insensitively.
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findOne(context, "postgres_user_find_by_email", schema.UserAccount.EmailKey+" = $1", identifier.Key(email))
}

func (repository *PostgresUserRepository) exists(context context.Context, column, key string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, schema.UserAccount.Table, column)

	var exists bool
	if err := repository.db.QueryRow(context, query, key).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "postgres_user_exists")
	}
	return exists, nil
}

// ExistsByUsername reports whether the folded username is taken.
func (repository *PostgresUserRepository) ExistsByUsername(context context.Context, username string) (bool, error) {
	return repository.exists(context, schema.UserAccount.UsernameKey, identifier.Key(username))
}

// ExistsByEmail reports whether the folded email is registered.
func (repository *PostgresUserRepository) ExistsByEmail(context context.Context, email string) (bool, error) {
	return repository.exists(context, schema.UserAccount.EmailKey, identifier.Key(email))
}

/*
Create persists a new user record into the users.account table.

Description: Stores the display forms and their folded keys side by side. The
unique constraints on the keys are the final arbiter of duplicate handles.

Parameters:
  - context: context.Context
  - user: *User (ID is assigned on success)

Returns:
  - error: apperr.Conflict on a duplicate handle, or database errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	table := schema.UserAccount
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s`,
		table.Table,
		table.Username, table.UsernameKey, table.Email, table.EmailKey, table.Password,
		table.Status, table.Role, table.EmailVerified, table.CreatedAt, table.UpdatedAt,
		table.ID)

	err := repository.db.QueryRow(context, query,
		user.Username,
		identifier.Key(user.Username),
		user.Email,
		identifier.Key(user.Email),
		user.PasswordHash,
		user.Status,
		user.Role,
		user.EmailVerified,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)

	if err != nil {
		if constraint, ok := dberr.UniqueViolation(err); ok {
			if strings.Contains(constraint, table.EmailKey) {
				return apperr.Conflict("Email is already registered")
			}
			return apperr.Conflict("Username is already taken")
		}
		return dberr.Wrap(err, "postgres_user_create")
	}

	return nil
}

func (repository *PostgresUserRepository) update(context context.Context, action, set string, id int64, arguments ...any) error {
	table := schema.UserAccount
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $1`, table.Table, set, table.ID)

	tag, err := repository.db.Exec(context, query, append([]any{id}, arguments...)...)
	if err != nil {
		return dberr.Wrap(err, action)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

// UpdateStatus moves an account to a new lifecycle state.
func (repository *PostgresUserRepository) UpdateStatus(context context.Context, id int64, status UserStatus, now time.Time) error {
	table := schema.UserAccount
	set := fmt.Sprintf("%s = $2, %s = $3", table.Status, table.UpdatedAt)
	return repository.update(context, "postgres_user_update_status", set, id, status, now)
}

// UpdatePassword replaces the stored password hash.
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, id int64, hash string, now time.Time) error {
	table := schema.UserAccount
	set := fmt.Sprintf("%s = $2, %s = $3", table.Password, table.UpdatedAt)
	return repository.update(context, "postgres_user_update_password", set, id, hash, now)
}

// MarkEmailVerified flags the email address as confirmed.
func (repository *PostgresUserRepository) MarkEmailVerified(context context.Context, id int64, now time.Time) error {
	table := schema.UserAccount
	set := fmt.Sprintf("%s = TRUE, %s = $2", table.EmailVerified, table.UpdatedAt)
	return repository.update(context, "postgres_user_mark_verified", set, id, now)
}

// # Security Repository

// PostgresSecurityRepository implements [SecurityRepository] on users.security.
type PostgresSecurityRepository struct {
	db postgres.Querier
}

// NewSecurityRepository creates a new PostgreSQL implementation of the SecurityRepository.
func NewSecurityRepository(db postgres.Querier) *PostgresSecurityRepository {
	return &PostgresSecurityRepository{db: db}
}

func scanSecurity(row pgx.Row) (*AccountSecurity, error) {
	security := &AccountSecurity{}
	err := row.Scan(
		&security.UserID,
		&security.FailedLoginAttempts,
		&security.LastFailedLogin,
		&security.AccountLockedUntil,
		&security.PasswordChangedAt,
		&security.TwoFactorEnabled,
		&security.CreatedAt,
		&security.UpdatedAt,
	)
	return security, err
}

/*
FindByUserID loads the security record and locks the row for the current transaction.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - *AccountSecurity: The record
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresSecurityRepository) FindByUserID(context context.Context, userID int64) (*AccountSecurity, error) {
	table := schema.UserSecurity
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`,
		strings.Join(table.Columns(), ", "), table.Table, table.UserID)

	security, err := scanSecurity(repository.db.QueryRow(context, query, userID))
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, apperr.NotFound("Account security")
		}
		return nil, dberr.Wrap(err, "postgres_security_find")
	}
	return security, nil
}

// Create inserts the initial record for a new account.
func (repository *PostgresSecurityRepository) Create(context context.Context, security *AccountSecurity) error {
	table := schema.UserSecurity
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		table.Table, strings.Join(table.Columns(), ", "))

	_, err := repository.db.Exec(context, query,
		security.UserID,
		security.FailedLoginAttempts,
		security.LastFailedLogin,
		security.AccountLockedUntil,
		security.PasswordChangedAt,
		security.TwoFactorEnabled,
		security.CreatedAt,
		security.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "postgres_security_create")
	}
	return nil
}

/*
RecordFailure increments the failure counter in a single statement.

Description: The lock is applied by the same UPDATE when the new counter
reaches the policy threshold, so no read-modify-write race can lose a failure.

Parameters:
  - context: context.Context
  - userID: int64
  - policy: LockoutPolicy
  - now: time.Time

Returns:
  - *AccountSecurity: The record after the increment
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresSecurityRepository) RecordFailure(context context.Context, userID int64, policy LockoutPolicy, now time.Time) (*AccountSecurity, error) {
	table := schema.UserSecurity
	query := fmt.Sprintf(`
		UPDATE %[1]s SET
			%[2]s = %[2]s + 1,
			%[3]s = $2,
			%[4]s = CASE WHEN %[2]s + 1 >= $3 THEN $4 ELSE %[4]s END,
			%[5]s = $2
		WHERE %[6]s = $1
		RETURNING %[7]s`,
		table.Table, table.FailedLoginAttempts, table.LastFailedLogin, table.AccountLockedUntil,
		table.UpdatedAt, table.UserID, strings.Join(table.Columns(), ", "))

	security, err := scanSecurity(repository.db.QueryRow(context, query,
		userID, now, policy.Threshold, now.Add(policy.Duration)))
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, apperr.NotFound("Account security")
		}
		return nil, dberr.Wrap(err, "postgres_security_record_failure")
	}
	return security, nil
}

// Reset returns the record to the NORMAL state.
func (repository *PostgresSecurityRepository) Reset(context context.Context, userID int64, now time.Time) error {
	table := schema.UserSecurity
	query := fmt.Sprintf(`
		UPDATE %s SET %s = 0, %s = NULL, %s = NULL, %s = $2
		WHERE %s = $1`,
		table.Table, table.FailedLoginAttempts, table.LastFailedLogin, table.AccountLockedUntil,
		table.UpdatedAt, table.UserID)

	if _, err := repository.db.Exec(context, query, userID, now); err != nil {
		return dberr.Wrap(err, "postgres_security_reset")
	}
	return nil
}

// MarkPasswordChanged stamps the credential change instant.
func (repository *PostgresSecurityRepository) MarkPasswordChanged(context context.Context, userID int64, now time.Time) error {
	table := schema.UserSecurity
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $2 WHERE %s = $1`,
		table.Table, table.PasswordChangedAt, table.UpdatedAt, table.UserID)

	if _, err := repository.db.Exec(context, query, userID, now); err != nil {
		return dberr.Wrap(err, "postgres_security_mark_password_changed")
	}
	return nil
}
