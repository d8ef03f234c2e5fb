// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account (Postgres) implements the storage layer for profiles and preferences.

# Schema Table Mapping
  - users.profile: Optional identity details, 1:1 with users.account.
  - users.preference: Playback and parental control settings, 1:1 with users.account.
*/
package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/streamvault/internal/platform/apperr"
	"github.com/taibuivan/streamvault/internal/platform/database/schema"
	"github.com/taibuivan/streamvault/internal/platform/dberr"
	"github.com/taibuivan/streamvault/internal/platform/postgres"
	"github.com/taibuivan/streamvault/internal/users/activity"
	"github.com/taibuivan/streamvault/pkg/slice"
)

// # Unit of Work

type queryStore struct {
	db postgres.Querier
}

func (store queryStore) Profiles() ProfileRepository       { return NewProfileRepository(store.db) }
func (store queryStore) Preferences() PreferenceRepository { return NewPreferenceRepository(store.db) }
func (store queryStore) Activity() activity.Repository     { return activity.NewRepository(store.db) }

// PostgresStore implements [Transactor] on a connection pool.
type PostgresStore struct {
	queryStore
	pool *pgxpool.Pool
}

// NewPostgresStore creates the account store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{queryStore: queryStore{db: pool}, pool: pool}
}

// WithinTransaction implements [Transactor].
func (store *PostgresStore) WithinTransaction(context context.Context, fn func(store Store) error) error {
	return postgres.WithinTx(context, store.pool, func(tx pgx.Tx) error {
		return fn(queryStore{db: tx})
	})
}

// upsertClause renders "ON CONFLICT (key) DO UPDATE" for every column except the key and createdat.
func upsertClause(key, createdAt string, columns []string) string {
	updatable := slice.Filter(columns, func(column string) bool {
		return column != key && column != createdAt
	})
	assignments := slice.Map(updatable, func(column string) string {
		return fmt.Sprintf("%s = EXCLUDED.%s", column, column)
	})
	return fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET %s", key, strings.Join(assignments, ", "))
}

// # Profile Repository

// PostgresProfileRepository implements [ProfileRepository] using pgx.
type PostgresProfileRepository struct {
	db postgres.Querier
}

// NewProfileRepository creates a new Postgres implementation of [ProfileRepository].
func NewProfileRepository(db postgres.Querier) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

/*
FindByUserID retrieves the profile row of a user.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - *Profile: Hydrated entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresProfileRepository) FindByUserID(context context.Context, userID int64) (*Profile, error) {
	table := schema.UserProfile
	query := fmt.Sprintf(`
		SELECT %s, COALESCE(%s, ''), COALESCE(%s, ''), COALESCE(%s, ''), COALESCE(%s, ''),
		       COALESCE(%s, ''), COALESCE(to_char(%s, 'YYYY-MM-DD'), ''), COALESCE(%s, ''),
		       COALESCE(%s, ''), COALESCE(%s, ''), %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		table.UserID, table.FirstName, table.LastName, table.DisplayName, table.Bio,
		table.AvatarURL, table.BirthDate, table.PhoneNumber,
		table.Country, table.Timezone, table.Language, table.CreatedAt, table.UpdatedAt,
		table.Table, table.UserID,
	)

	profile := &Profile{}
	err := repository.db.QueryRow(context, query, userID).Scan(
		&profile.UserID,
		&profile.FirstName,
		&profile.LastName,
		&profile.DisplayName,
		&profile.Bio,
		&profile.AvatarURL,
		&profile.BirthDate,
		&profile.PhoneNumber,
		&profile.Country,
		&profile.Timezone,
		&profile.Language,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, apperr.NotFound("Profile")
		}
		return nil, dberr.Wrap(err, "postgres_profile_find")
	}
	return profile, nil
}

// Upsert writes the profile. Empty strings are stored as NULL.
func (repository *PostgresProfileRepository) Upsert(context context.Context, profile *Profile) error {
	table := schema.UserProfile
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''),
		        NULLIF($7, '')::date, NULLIF($8, ''), NULLIF($9, ''), NULLIF($10, ''), $11, $12, $13)
		%s`,
		table.Table, strings.Join(table.Columns(), ", "),
		upsertClause(table.UserID, table.CreatedAt, table.Columns()),
	)

	_, err := repository.db.Exec(context, query,
		profile.UserID,
		profile.FirstName,
		profile.LastName,
		profile.DisplayName,
		profile.Bio,
		profile.AvatarURL,
		profile.BirthDate,
		profile.PhoneNumber,
		profile.Country,
		profile.Timezone,
		profile.Language,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "postgres_profile_upsert")
	}
	return nil
}

// # Preference Repository

// PostgresPreferenceRepository implements [PreferenceRepository] using pgx.
type PostgresPreferenceRepository struct {
	db postgres.Querier
}

// NewPreferenceRepository creates a new Postgres implementation of [PreferenceRepository].
func NewPreferenceRepository(db postgres.Querier) *PostgresPreferenceRepository {
	return &PostgresPreferenceRepository{db: db}
}

// FindByUserID retrieves the preference row of a user with FOR UPDATE.
func (repository *PostgresPreferenceRepository) FindByUserID(context context.Context, userID int64) (*Preferences, error) {
	table := schema.UserPreference
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, COALESCE(%s, ''), %s, %s, %s
		FROM %s
		WHERE %s = $1
		FOR UPDATE`,
		table.UserID, table.PreferredLanguage, table.PreferredQuality, table.AutoplayEnabled,
		table.SubtitlesEnabled, table.SubtitleLanguage, table.AdultContentEnabled,
		table.EmailNotifications, table.MarketingEmails, table.PushNotifications,
		table.ParentalPINHash, table.ContentFilters, table.CreatedAt, table.UpdatedAt,
		table.Table, table.UserID,
	)

	preferences := &Preferences{}
	err := repository.db.QueryRow(context, query, userID).Scan(
		&preferences.UserID,
		&preferences.PreferredLanguage,
		&preferences.PreferredQuality,
		&preferences.AutoplayEnabled,
		&preferences.SubtitlesEnabled,
		&preferences.SubtitleLanguage,
		&preferences.AdultContentEnabled,
		&preferences.EmailNotifications,
		&preferences.MarketingEmails,
		&preferences.PushNotifications,
		&preferences.PINHash,
		&preferences.ContentFilters,
		&preferences.CreatedAt,
		&preferences.UpdatedAt,
	)
	if err != nil {
		if dberr.IsNoRows(err) {
			return nil, apperr.NotFound("Preferences")
		}
		return nil, dberr.Wrap(err, "postgres_preference_find")
	}

	if preferences.ContentFilters == nil {
		preferences.ContentFilters = []string{}
	}
	return preferences, nil
}

// Upsert writes the preferences. An empty PIN hash is stored as NULL.
func (repository *PostgresPreferenceRepository) Upsert(context context.Context, preferences *Preferences) error {
	table := schema.UserPreference
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''), $12, $13, $14)
		%s`,
		table.Table, strings.Join(table.Columns(), ", "),
		upsertClause(table.UserID, table.CreatedAt, table.Columns()),
	)

	filters := preferences.ContentFilters
	if filters == nil {
		filters = []string{}
	}

	_, err := repository.db.Exec(context, query,
		preferences.UserID,
		preferences.PreferredLanguage,
		preferences.PreferredQuality,
		preferences.AutoplayEnabled,
		preferences.SubtitlesEnabled,
		preferences.SubtitleLanguage,
		preferences.AdultContentEnabled,
		preferences.EmailNotifications,
		preferences.MarketingEmails,
		preferences.PushNotifications,
		preferences.PINHash,
		filters,
		preferences.CreatedAt,
		preferences.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "postgres_preference_upsert")
	}
	return nil
}
