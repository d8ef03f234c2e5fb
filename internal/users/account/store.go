// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"

	"github.com/taibuivan/streamvault/internal/users/activity"
	"github.com/taibuivan/streamvault/internal/users/auth"
)

// # Repository Contracts

// ProfileRepository persists [Profile] rows.
type ProfileRepository interface {
	/*
		FindByUserID loads the stored profile.

		Returns:
		  - *Profile: The stored row
		  - error: apperr.NotFound when the user never saved a profile
	*/
	FindByUserID(context context.Context, userID int64) (*Profile, error)

	// Upsert inserts or replaces the row keyed by UserID.
	Upsert(context context.Context, profile *Profile) error
}

// PreferenceRepository persists [Preferences] rows.
type PreferenceRepository interface {
	/*
		FindByUserID loads the stored preferences, locking the row inside a transaction.

		Returns:
		  - *Preferences: The stored row
		  - error: apperr.NotFound when the user never saved preferences
	*/
	FindByUserID(context context.Context, userID int64) (*Preferences, error)

	// Upsert inserts or replaces the row keyed by UserID.
	Upsert(context context.Context, preferences *Preferences) error
}

// # Unit of Work

// Store groups the repositories that take part in one account mutation.
type Store interface {
	Profiles() ProfileRepository
	Preferences() PreferenceRepository
	Activity() activity.Repository
}

// Transactor runs fn with a [Store] bound to a single transaction.
type Transactor interface {
	Store
	WithinTransaction(context context.Context, fn func(store Store) error) error
}

// UserLookup resolves the owning account. Satisfied by [auth.Service].
type UserLookup interface {
	GetUser(context context.Context, id int64) (*auth.User, error)
}

// PINHasher hashes and checks parental PINs. Satisfied by [sec.BcryptHasher].
type PINHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, encoded string) bool
}
