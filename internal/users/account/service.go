// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/streamvault/internal/platform/apperr"
	"github.com/taibuivan/streamvault/internal/platform/ctxutil"
	"github.com/taibuivan/streamvault/internal/platform/validate"
	"github.com/taibuivan/streamvault/internal/users/activity"
)

// # Service Layer

// Service owns profile, preference and parental control workflows.
type Service struct {
	store     Transactor
	users     UserLookup
	hasher    PINHasher
	mirror    *activity.Mirror
	clock     func() time.Time
}

// Option customises a [Service].
type Option func(*Service)

// WithClock replaces [time.Now].
func WithClock(clock func() time.Time) Option {
	return func(service *Service) { service.clock = clock }
}

// WithMirror streams audit entries after commit.
func WithMirror(mirror *activity.Mirror) Option {
	return func(service *Service) { service.mirror = mirror }
}

// NewService constructs a [Service].
func NewService(store Transactor, users UserLookup, hasher PINHasher, options ...Option) *Service {
	service := &Service{
		store:     store,
		users:     users,
		hasher:    hasher,
		mirror:    activity.NewMirror(nil),
		clock:     time.Now,
	}
	for _, option := range options {
		option(service)
	}
	return service
}

func (service *Service) now() time.Time {
	return service.clock().UTC()
}

// # Profile

/*
GetProfile returns the stored profile or the defaults for the account.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - *Profile: Stored or default profile
  - error: apperr.NotFound if the account itself does not exist
*/
func (service *Service) GetProfile(context context.Context, userID int64) (*Profile, error) {
	profile, err := service.loadProfile(context, service.store, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return profile, nil
}

func (service *Service) loadProfile(context context.Context, store Store, userID int64) (*Profile, error) {
	profile, err := store.Profiles().FindByUserID(context, userID)
	if err == nil {
		return profile, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, err
	}

	user, err := service.users.GetUser(context, userID)
	if err != nil {
		return nil, err
	}
	return DefaultProfile(user.ID, user.Username, service.now()), nil
}

/*
UpdateProfile merges changes into the profile.

Description: A row is written and a PROFILE_UPDATE entry appended only when at
least one field actually changed. The entry lists the changed field names.

Parameters:
  - context: context.Context
  - userID: int64
  - changes: ProfileChanges
  - client: activity.Client

Returns:
  - *Profile: The resulting profile
  - error: Lookup or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID int64, changes ProfileChanges, client activity.Client) (*Profile, error) {
	var (
		result *Profile
		entry  *activity.Entry
	)

	err := service.store.WithinTransaction(context, func(store Store) error {
		current, err := service.loadProfile(context, store, userID)
		if err != nil {
			return err
		}

		now := service.now()
		updated, changed := current.Apply(changes, now)
		result = &updated
		if len(changed) == 0 {
			return nil
		}

		if err := store.Profiles().Upsert(context, result); err != nil {
			return err
		}

		entry = activity.ProfileUpdated(userID, "Profile updated", changed, client, now)
		return store.Activity().Append(context, entry)
	})
	if err != nil {
		return nil, fmt.Errorf("account_service_update_profile_failed: %w", err)
	}

	if entry != nil {
		service.mirror.Publish(context, entry)
		ctxutil.GetLogger(context).InfoContext(context, "user_profile_updated",
			slog.Int64("user_id", userID),
			slog.Any("changed_fields", entry.Metadata["changed_fields"]),
		)
	}
	return result, nil
}

// # Preferences

// GetPreferences returns the stored preferences or the defaults.
func (service *Service) GetPreferences(context context.Context, userID int64) (*Preferences, error) {
	preferences, err := service.loadPreferences(context, service.store, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_preferences_failed: %w", err)
	}
	return preferences, nil
}

func (service *Service) loadPreferences(context context.Context, store Store, userID int64) (*Preferences, error) {
	preferences, err := store.Preferences().FindByUserID(context, userID)
	if err == nil {
		return preferences, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, err
	}

	if _, err := service.users.GetUser(context, userID); err != nil {
		return nil, err
	}
	return DefaultPreferences(userID, service.now()), nil
}

// UpdatePreferencesInput carries a partial preference update.
type UpdatePreferencesInput struct {
	Changes PreferenceChanges

	// PIN is only consulted when the update turns adult content on while parental control is enabled.
	PIN string
}

/*
UpdatePreferences merges changes into the preferences.

Parameters:
  - context: context.Context
  - userID: int64
  - input: UpdatePreferencesInput

Returns:
  - *Preferences: The saved preferences
  - error: ValidationError, ErrPINRequired, ErrPINMismatch or storage failures
*/
func (service *Service) UpdatePreferences(context context.Context, userID int64, input UpdatePreferencesInput) (*Preferences, error) {
	if input.Changes.PreferredQuality != nil && !input.Changes.PreferredQuality.IsValid() {
		return nil, validate.RequiredError(FieldPreferredQuality, "Must be one of: AUTO, SD, HD, FHD, UHD")
	}

	var result *Preferences
	err := service.store.WithinTransaction(context, func(store Store) error {
		current, err := service.loadPreferences(context, store, userID)
		if err != nil {
			return err
		}

		if current.ParentalControlEnabled() && current.EnablesAdultContent(input.Changes) {
			if err := service.checkPIN(current, input.PIN); err != nil {
				return err
			}
		}

		updated := current.Apply(input.Changes, service.now())
		result = &updated
		return store.Preferences().Upsert(context, result)
	})
	if err != nil {
		return nil, fmt.Errorf("account_service_update_preferences_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_preferences_updated", slog.Int64("user_id", userID))
	return result, nil
}

// # Parental Control

// SetPINInput sets, replaces or clears (empty NewPIN) the parental PIN.
type SetPINInput struct {
	UserID     int64
	CurrentPIN string
	NewPIN     string
	Client     activity.Client
}

/*
SetParentalPIN changes the parental control PIN.

Description: A new PIN must be 4 to 6 digits. When a PIN is already set, the
current one is required to replace or clear it. Setting a PIN turns adult
content off.

Parameters:
  - context: context.Context
  - input: SetPINInput

Returns:
  - *Preferences: The saved preferences
  - error: ValidationError, ErrPINRequired, ErrPINMismatch or storage failures
*/
func (service *Service) SetParentalPIN(context context.Context, input SetPINInput) (*Preferences, error) {
	var hash string
	if input.NewPIN != "" {
		if err := pinRules(&validate.Validator{}, FieldNewPIN, input.NewPIN).Err(); err != nil {
			return nil, err
		}

		var err error
		if hash, err = service.hasher.Hash(input.NewPIN); err != nil {
			return nil, apperr.Internal(fmt.Errorf("account_service_hash_pin_failed: %w", err))
		}
	}

	var (
		result *Preferences
		entry  *activity.Entry
	)

	err := service.store.WithinTransaction(context, func(store Store) error {
		current, err := service.loadPreferences(context, store, input.UserID)
		if err != nil {
			return err
		}

		if current.ParentalControlEnabled() {
			if err := service.checkPIN(current, input.CurrentPIN); err != nil {
				return err
			}
		}

		now := service.now()
		description := "Parental control enabled"
		updated := current.WithPIN(hash, now)
		if hash == "" {
			description = "Parental control disabled"
			updated = current.WithoutPIN(now)
		}

		result = &updated
		if err := store.Preferences().Upsert(context, result); err != nil {
			return err
		}

		entry = activity.ProfileUpdated(input.UserID, description, []string{FieldParentalPIN}, input.Client, now)
		return store.Activity().Append(context, entry)
	})
	if err != nil {
		return nil, fmt.Errorf("account_service_set_pin_failed: %w", err)
	}

	service.mirror.Publish(context, entry)
	ctxutil.GetLogger(context).InfoContext(context, "parental_control_changed",
		slog.Int64("user_id", input.UserID),
		slog.Bool("enabled", hash != ""),
	)
	return result, nil
}

/*
VerifyParentalPIN checks a PIN against the stored hash.

Returns:
  - bool: False when no PIN is set or the PIN does not match
  - error: Lookup failures
*/
func (service *Service) VerifyParentalPIN(context context.Context, userID int64, pin string) (bool, error) {
	preferences, err := service.loadPreferences(context, service.store, userID)
	if err != nil {
		return false, fmt.Errorf("account_service_verify_pin_failed: %w", err)
	}

	if !preferences.ParentalControlEnabled() || pin == "" {
		return false, nil
	}
	return service.hasher.Verify(pin, preferences.PINHash), nil
}

func (service *Service) checkPIN(preferences *Preferences, pin string) error {
	if pin == "" {
		return ErrPINRequired
	}
	if !service.hasher.Verify(pin, preferences.PINHash) {
		return ErrPINMismatch
	}
	return nil
}

// pinRules applies the parental PIN format to a field.
func pinRules(validator *validate.Validator, field, value string) *validate.Validator {
	return validator.
		MinLen(field, value, PINMinLength).
		MaxLen(field, value, PINMaxLength).
		Digits(field, value)
}
