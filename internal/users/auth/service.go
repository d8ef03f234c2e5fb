// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/streamvault/internal/platform/apperr"
	"github.com/taibuivan/streamvault/internal/platform/ctxutil"
	"github.com/taibuivan/streamvault/internal/platform/sec"
	"github.com/taibuivan/streamvault/internal/users/activity"
	"github.com/taibuivan/streamvault/pkg/pointer"
)

// # Contracts & Types

// PasswordHasher derives and checks password hashes.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, encoded string) bool
}

// rehasher is implemented by hashers that can detect an outdated work factor.
type rehasher interface {
	NeedsRehash(encoded string) bool
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, lockout,
// or session logic must be reviewed by the security team.
type Service struct {
	store        Transactor
	verifyTokens TokenStore
	resetTokens  TokenStore
	hasher       PasswordHasher
	mirror       *activity.Mirror
	notifier     Notifier
	policy       LockoutPolicy
	sessionTTL   time.Duration
	clock        func() time.Time
	tokenSource  func(n int) (string, error)
	timingHash   string
}

// Option customises a [Service].
type Option func(*Service)

// WithLockoutPolicy overrides [DefaultLockoutPolicy].
func WithLockoutPolicy(policy LockoutPolicy) Option {
	return func(service *Service) { service.policy = policy }
}

// WithSessionTTL overrides [DefaultSessionTTL].
func WithSessionTTL(ttl time.Duration) Option {
	return func(service *Service) { service.sessionTTL = ttl }
}

// WithClock replaces the wall clock.
func WithClock(clock func() time.Time) Option {
	return func(service *Service) { service.clock = clock }
}

// WithTokenSource replaces [sec.GenerateSecureToken].
func WithTokenSource(source func(n int) (string, error)) Option {
	return func(service *Service) { service.tokenSource = source }
}

// WithMirror forwards committed activity entries to the event stream.
func WithMirror(mirror *activity.Mirror) Option {
	return func(service *Service) { service.mirror = mirror }
}

// WithNotifier sets the delivery channel for one-time tokens.
func WithNotifier(notifier Notifier) Option {
	return func(service *Service) { service.notifier = notifier }
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	store Transactor,
	verifyTokens TokenStore,
	resetTokens TokenStore,
	hasher PasswordHasher,
	options ...Option,
) *Service {
	service := &Service{
		store:        store,
		verifyTokens: verifyTokens,
		resetTokens:  resetTokens,
		hasher:       hasher,
		mirror:       activity.NewMirror(nil),
		notifier:     NewLogNotifier(slog.Default()),
		policy:       DefaultLockoutPolicy,
		sessionTTL:   DefaultSessionTTL,
		clock:        time.Now,
		tokenSource:  sec.GenerateSecureToken,
	}
	for _, option := range options {
		option(service)
	}

	// Unknown identifiers are verified against this hash so both paths cost one bcrypt comparison.
	service.timingHash, _ = hasher.Hash("streamvault-timing-placeholder")

	return service
}

func (service *Service) now() time.Time {
	return service.clock().UTC()
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Client   activity.Client
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Creates the account, its security record, and the REGISTER
audit entry in one transaction, then issues an email verification token.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	logger := ctxutil.GetLogger(context)

	// Uniqueness pre-check. The unique key constraints still reject concurrent duplicates.
	taken, err := service.store.Users().ExistsByEmail(context, input.Email)
	if err != nil {
		return nil, fmt.Errorf("auth_service_register_lookup_failed: %w", err)
	}
	if taken {
		return nil, apperr.Conflict("Email is already registered")
	}

	taken, err = service.store.Users().ExistsByUsername(context, input.Username)
	if err != nil {
		return nil, fmt.Errorf("auth_service_register_lookup_failed: %w", err)
	}
	if taken {
		return nil, apperr.Conflict("Username is already taken")
	}

	hashedPassword, err := service.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	now := service.now()
	user := &User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Status:       StatusActive,
		Role:         sec.RoleMember,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var entry *activity.Entry
	err = service.store.WithinTransaction(context, func(store Store) error {
		if err := store.Users().Create(context, user); err != nil {
			return err
		}

		security := NewAccountSecurity(user.ID, now)
		if err := store.Security().Create(context, &security); err != nil {
			return err
		}

		entry = activity.Registered(user.ID, input.Client, now)
		return store.Activity().Append(context, entry)
	})
	if err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	service.mirror.Publish(context, entry)
	logger.InfoContext(context, "user_registered", slog.Int64("user_id", user.ID))

	// A lost token can be re-requested through ResendVerification.
	if err := service.issueVerification(context, user); err != nil {
		logger.WarnContext(context, "verification_issue_failed", slog.Int64("user_id", user.ID), slog.Any("error", err))
	}

	return user, nil
}

func (service *Service) issueVerification(context context.Context, user *User) error {
	token, err := service.tokenSource(VerificationTokenLength)
	if err != nil {
		return fmt.Errorf("auth_service_verification_token_failed: %w", err)
	}
	if err := service.verifyTokens.Set(context, token, user.ID, VerificationTokenTTL); err != nil {
		return err
	}
	return service.notifier.SendVerification(context, user, token)
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Identifier string // Username or email, any case
	Password   string
	Client     activity.Client
}

/*
Login validates user credentials and opens a new session.

Description: Runs as one transaction with the account security row locked,
so concurrent attempts on the same account are serialized. Rejections that
mutate state (a wrong password) commit their counter and audit entry before
the error is returned.

Order of checks:
 1. Unknown identifier: InvalidCredentials.
 2. Status other than ACTIVE: AccountNotActive.
 3. Missing security record: Internal.
 4. Lock in force: AccountLocked, even for the right password.
 5. Wrong password: counter incremented, LOGIN/failed entry, InvalidCredentials.
 6. Otherwise: counter reset, session created, LOGIN entry.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *Session: The new session, with the plaintext token and user summary
  - error: One of the rejections above, or storage failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*Session, error) {
	logger := ctxutil.GetLogger(context)
	now := service.now()

	var (
		session *Session
		user    *User
		token   string
		outcome error
		entry   *activity.Entry
	)

	err := service.store.WithinTransaction(context, func(store Store) error {
		found, err := store.Users().FindByIdentifier(context, input.Identifier)
		if err != nil {
			if apperr.IsNotFound(err) {
				service.hasher.Verify(input.Password, service.timingHash)
				logger.InfoContext(context, "login_rejected", slog.String("reason", "unknown_identifier"))
				outcome = ErrInvalidCredentials
				return nil
			}
			return fmt.Errorf("auth_service_login_lookup_failed: %w", err)
		}
		user = found

		if !user.IsActive() {
			logger.WarnContext(context, "login_rejected",
				slog.String("reason", "account_not_active"),
				slog.Int64("user_id", user.ID),
				slog.String("status", string(user.Status)),
			)
			outcome = ErrAccountNotActive
			return nil
		}

		security, err := store.Security().FindByUserID(context, user.ID)
		if err != nil {
			if apperr.IsNotFound(err) {
				logger.ErrorContext(context, "security_record_missing", slog.Int64("user_id", user.ID))
				return apperr.Internal(ErrSecurityRecordMissing)
			}
			return fmt.Errorf("auth_service_login_security_failed: %w", err)
		}

		if security.IsLocked(now) {
			logger.WarnContext(context, "login_rejected",
				slog.String("reason", "account_locked"),
				slog.Int64("user_id", user.ID),
				slog.Time("locked_until", *security.AccountLockedUntil),
			)
			outcome = AccountLockedError(*security.AccountLockedUntil)
			return nil
		}

		if !service.hasher.Verify(input.Password, user.PasswordHash) {
			updated, err := store.Security().RecordFailure(context, user.ID, service.policy, now)
			if err != nil {
				return fmt.Errorf("auth_service_login_record_failure_failed: %w", err)
			}

			locked := updated.IsLocked(now)
			entry = activity.LoginFailed(user.ID, updated.FailedLoginAttempts, locked, input.Client, now)
			if err := store.Activity().Append(context, entry); err != nil {
				return fmt.Errorf("auth_service_login_audit_failed: %w", err)
			}

			logger.WarnContext(context, "login_rejected",
				slog.String("reason", "invalid_password"),
				slog.Int64("user_id", user.ID),
				slog.Int("failed_attempts", updated.FailedLoginAttempts),
				slog.Bool("locked", locked),
			)
			outcome = ErrInvalidCredentials
			return nil
		}

		if err := store.Security().Reset(context, user.ID, now); err != nil {
			return fmt.Errorf("auth_service_login_reset_failed: %w", err)
		}

		token, err = service.tokenSource(SessionTokenLength)
		if err != nil {
			logger.ErrorContext(context, "security_anomaly",
				slog.String("reason", "entropy_unavailable"),
				slog.Any("error", err),
			)
			return apperr.Internal(fmt.Errorf("auth_service_token_generation_failed: %w", err))
		}

		session = &Session{
			UserID:     user.ID,
			TokenHash:  sec.HashToken(token),
			IPAddress:  input.Client.IPAddress,
			UserAgent:  input.Client.UserAgent,
			DeviceInfo: input.Client.DeviceInfo,
			LoginAt:    now,
			IsActive:   true,
			ExpiresAt:  pointer.To(now.Add(service.sessionTTL)),
		}
		if err := store.Sessions().Create(context, session); err != nil {
			return fmt.Errorf("auth_service_session_creation_failed: %w", err)
		}

		entry = activity.LoginSucceeded(user.ID, session.ID, input.Client, now)
		if err := store.Activity().Append(context, entry); err != nil {
			return fmt.Errorf("auth_service_login_audit_failed: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.mirror.Publish(context, entry)
	if outcome != nil {
		return nil, outcome
	}

	logger.InfoContext(context, "user_authenticated",
		slog.Int64("user_id", user.ID),
		slog.Int64("session_id", session.ID),
	)

	if err := service.upgradeHash(context, service.store, user, input.Password, now); err != nil {
		logger.WarnContext(context, "password_rehash_failed", slog.Int64("user_id", user.ID), slog.Any("error", err))
	}

	session.Token = token
	session.User = user.Summary()
	return session, nil
}

// upgradeHash re-derives the stored hash when the work factor has been raised.
func (service *Service) upgradeHash(context context.Context, store Store, user *User, password string, now time.Time) error {
	checker, ok := service.hasher.(rehasher)
	if !ok || !checker.NeedsRehash(user.PasswordHash) {
		return nil
	}

	hashed, err := service.hasher.Hash(password)
	if err != nil {
		return err
	}
	if err := store.Users().UpdatePassword(context, user.ID, hashed, now); err != nil {
		return err
	}
	user.PasswordHash = hashed
	return nil
}

// GetUser returns an account by ID.
func (service *Service) GetUser(context context.Context, id int64) (*User, error) {
	user, err := service.store.Users().FindByID(context, id)
	if err != nil {
		return nil, fmt.Errorf("auth_service_get_user_failed: %w", err)
	}
	return user, nil
}
