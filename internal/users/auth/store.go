// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/taibuivan/streamvault/internal/users/activity"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// Username and email lookups are case- and width-insensitive; implementations
// compare folded keys (see identifier.Key).
type UserRepository interface {
	FindByID(context context.Context, id int64) (*User, error)

	/*
		FindByIdentifier returns the account whose username or email matches.

		Parameters:
		  - context: context.Context
		  - identifier: string (username or email, any case)

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByIdentifier(context context.Context, identifier string) (*User, error)

	FindByEmail(context context.Context, email string) (*User, error)
	ExistsByUsername(context context.Context, username string) (bool, error)
	ExistsByEmail(context context.Context, email string) (bool, error)

	// Create persists user and assigns its ID. Duplicate handles surface as Conflict.
	Create(context context.Context, user *User) error

	UpdateStatus(context context.Context, id int64, status UserStatus, now time.Time) error
	UpdatePassword(context context.Context, id int64, hash string, now time.Time) error
	MarkEmailVerified(context context.Context, id int64, now time.Time) error
}

// # Security Data Access

// SecurityRepository defines access to the per-user lockout counters.
type SecurityRepository interface {

	/*
		FindByUserID returns the security record of a user.

		Inside a transaction the row is locked until commit so concurrent
		login attempts for the same account serialize.

		Returns:
		  - *AccountSecurity: The record
		  - error: apperr.NotFound when missing, or database errors
	*/
	FindByUserID(context context.Context, userID int64) (*AccountSecurity, error)

	Create(context context.Context, security *AccountSecurity) error

	// RecordFailure atomically increments the counter and applies the lock when due.
	RecordFailure(context context.Context, userID int64, policy LockoutPolicy, now time.Time) (*AccountSecurity, error)

	// Reset clears the counter, the last failure and any lock.
	Reset(context context.Context, userID int64, now time.Time) error

	MarkPasswordChanged(context context.Context, userID int64, now time.Time) error
}

// # Session Data Access

// SessionRepository defines the data access contract for login sessions.
type SessionRepository interface {

	// Create persists session and assigns its ID.
	Create(context context.Context, session *Session) error

	// FindByTokenHash returns the session regardless of state, or apperr.NotFound.
	FindByTokenHash(context context.Context, tokenHash string) (*Session, error)

	FindByID(context context.Context, id int64) (*Session, error)

	// ListByUser returns the user's sessions, newest login first.
	ListByUser(context context.Context, userID int64, activeOnly bool) ([]*Session, error)

	Touch(context context.Context, id int64, now time.Time) error

	// End deactivates an active session. It reports false if the session was already inactive.
	End(context context.Context, id int64, now time.Time) (bool, error)

	Extend(context context.Context, id int64, expiresAt time.Time) error

	// DeactivateAllByUser clears isActive on every session of the user, leaving logoutAt untouched.
	DeactivateAllByUser(context context.Context, userID int64) (int64, error)

	// DeactivateOthers does the same for every session except keepID.
	DeactivateOthers(context context.Context, userID, keepID int64) (int64, error)

	// CountActiveByUser counts sessions with isActive set, whatever their expiry.
	CountActiveByUser(context context.Context, userID int64) (int64, error)
}

// # Unit of Work

// Store groups the repositories that share one database handle.
type Store interface {
	Users() UserRepository
	Security() SecurityRepository
	Sessions() SessionRepository
	Activity() activity.Repository
}

// Transactor is a [Store] that can also run a unit of work atomically.
type Transactor interface {
	Store

	// WithinTransaction runs fn against a transaction-bound Store. A non-nil
	// error from fn rolls everything back.
	WithinTransaction(context context.Context, fn func(store Store) error) error
}

// # One-time Tokens

// TokenStore holds short-lived single-use tokens (email verification, password reset).
type TokenStore interface {
	Set(context context.Context, token string, userID int64, ttl time.Duration) error

	// Consume returns the owner of token and deletes it atomically.
	// Unknown or expired tokens yield apperr.NotFound.
	Consume(context context.Context, token string) (int64, error)
}
