// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/streamvault/internal/platform/apperr"
	"github.com/taibuivan/streamvault/internal/platform/ctxutil"
	"github.com/taibuivan/streamvault/internal/users/activity"
)

// # Password Management

// ChangePasswordInput carries a signed-in credential change.
type ChangePasswordInput struct {
	UserID          int64
	SessionID       int64 // Kept active; every other session is ended
	CurrentPassword string
	NewPassword     string
	Client          activity.Client
}

/*
ChangePassword replaces the password of a signed-in user.

Description: The current password must verify. All other sessions of the user
are deactivated.

Parameters:
  - context: context.Context
  - input: ChangePasswordInput

Returns:
  - error: ErrWrongPassword, or storage failures
*/
func (service *Service) ChangePassword(context context.Context, input ChangePasswordInput) error {
	user, err := service.store.Users().FindByID(context, input.UserID)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_lookup_failed: %w", err)
	}

	if !service.hasher.Verify(input.CurrentPassword, user.PasswordHash) {
		return ErrWrongPassword
	}

	hashed, err := service.hasher.Hash(input.NewPassword)
	if err != nil {
		return fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	now := service.now()
	var entry *activity.Entry
	err = service.store.WithinTransaction(context, func(store Store) error {
		if err := store.Users().UpdatePassword(context, user.ID, hashed, now); err != nil {
			return err
		}
		if err := store.Security().MarkPasswordChanged(context, user.ID, now); err != nil {
			return err
		}

		revoked, err := store.Sessions().DeactivateOthers(context, user.ID, input.SessionID)
		if err != nil {
			return err
		}

		entry = activity.PasswordChanged(user.ID, "change", revoked, input.Client, now)
		return store.Activity().Append(context, entry)
	})
	if err != nil {
		return fmt.Errorf("auth_service_change_password_failed: %w", err)
	}

	service.mirror.Publish(context, entry)
	return nil
}

/*
RequestPasswordReset issues a reset token for the account registered under email.

Description: Unknown or inactive addresses succeed silently so the endpoint
cannot be used to probe which emails are registered.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - error: Token storage or delivery failures only
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) error {
	user, err := service.store.Users().FindByEmail(context, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("auth_service_reset_lookup_failed: %w", err)
	}
	if !user.IsActive() {
		return nil
	}

	token, err := service.tokenSource(ResetTokenLength)
	if err != nil {
		return apperr.Internal(fmt.Errorf("auth_service_reset_token_failed: %w", err))
	}

	if err := service.resetTokens.Set(context, token, user.ID, ResetTokenTTL); err != nil {
		return fmt.Errorf("auth_service_reset_token_store_failed: %w", err)
	}

	if err := service.notifier.SendPasswordReset(context, user, token); err != nil {
		return fmt.Errorf("auth_service_reset_notify_failed: %w", err)
	}
	return nil
}

/*
ResetPassword redeems a reset token and sets a new password.

Description: The token is single-use. Redeeming it also clears any lockout
and ends every session of the account.

Parameters:
  - context: context.Context
  - token: string
  - newPassword: string
  - client: activity.Client

Returns:
  - error: ErrTokenInvalid, or storage failures
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string, client activity.Client) error {
	userID, err := service.resetTokens.Consume(context, token)
	if err != nil {
		if apperr.IsNotFound(err) {
			return ErrTokenInvalid
		}
		return fmt.Errorf("auth_service_reset_consume_failed: %w", err)
	}

	hashed, err := service.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	now := service.now()
	var entry *activity.Entry
	err = service.store.WithinTransaction(context, func(store Store) error {
		if err := store.Users().UpdatePassword(context, userID, hashed, now); err != nil {
			return err
		}
		if err := store.Security().MarkPasswordChanged(context, userID, now); err != nil {
			return err
		}
		if err := store.Security().Reset(context, userID, now); err != nil {
			return err
		}

		revoked, err := store.Sessions().DeactivateAllByUser(context, userID)
		if err != nil {
			return err
		}

		entry = activity.PasswordChanged(userID, "reset", revoked, client, now)
		return store.Activity().Append(context, entry)
	})
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_failed: %w", err)
	}

	service.mirror.Publish(context, entry)
	ctxutil.GetLogger(context).InfoContext(context, "password_reset", slog.Int64("user_id", userID))
	return nil
}

// # Email Verification

/*
VerifyEmail redeems a verification token and marks the email confirmed.

Returns:
  - error: ErrTokenInvalid, or storage failures
*/
func (service *Service) VerifyEmail(context context.Context, token string, client activity.Client) error {
	userID, err := service.verifyTokens.Consume(context, token)
	if err != nil {
		if apperr.IsNotFound(err) {
			return ErrTokenInvalid
		}
		return fmt.Errorf("auth_service_verify_consume_failed: %w", err)
	}

	now := service.now()
	var entry *activity.Entry
	err = service.store.WithinTransaction(context, func(store Store) error {
		if err := store.Users().MarkEmailVerified(context, userID, now); err != nil {
			return err
		}
		entry = activity.ProfileUpdated(userID, "Email verified", []string{FieldEmail}, client, now)
		return store.Activity().Append(context, entry)
	})
	if err != nil {
		return fmt.Errorf("auth_service_verify_email_failed: %w", err)
	}

	service.mirror.Publish(context, entry)
	return nil
}

// ResendVerification issues a fresh verification token for an unverified account.
func (service *Service) ResendVerification(context context.Context, userID int64) error {
	user, err := service.store.Users().FindByID(context, userID)
	if err != nil {
		return fmt.Errorf("auth_service_resend_lookup_failed: %w", err)
	}
	if user.EmailVerified {
		return apperr.Conflict("Email is already verified")
	}
	return service.issueVerification(context, user)
}

// # Administration

/*
UpdateUserStatus moves an account to a new lifecycle state.

Description: Leaving ACTIVE deactivates every session of the account in the
same transaction, so a suspension takes effect on the next request.

Parameters:
  - context: context.Context
  - userID: int64
  - status: UserStatus

Returns:
  - error: Validation error for unknown statuses, apperr.NotFound, or storage failures
*/
func (service *Service) UpdateUserStatus(context context.Context, userID int64, status UserStatus) error {
	if !status.IsValid() {
		return apperr.ValidationError("Invalid account status", apperr.FieldError{Field: FieldStatus, Message: "Unknown status"})
	}

	now := service.now()
	err := service.store.WithinTransaction(context, func(store Store) error {
		if err := store.Users().UpdateStatus(context, userID, status, now); err != nil {
			return err
		}
		if status == StatusActive {
			return nil
		}
		_, err := store.Sessions().DeactivateAllByUser(context, userID)
		return err
	})
	if err != nil {
		return fmt.Errorf("auth_service_update_status_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_status_changed",
		slog.Int64("user_id", userID),
		slog.String("status", string(status)),
	)
	return nil
}
