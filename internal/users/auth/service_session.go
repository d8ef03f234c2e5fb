// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/streamvault/internal/platform/apperr"
	"github.com/taibuivan/streamvault/internal/platform/ctxutil"
	"github.com/taibuivan/streamvault/internal/platform/sec"
	"github.com/taibuivan/streamvault/internal/users/activity"
	"github.com/taibuivan/streamvault/pkg/slice"
)

// # Session Lifecycle

/*
Logout ends the session addressed by token.

Description: Deactivates the session, stamps logoutAt, and appends a
LOGOUT entry in one transaction.

Parameters:
  - context: context.Context
  - token: string (plaintext bearer token)
  - client: activity.Client

Returns:
  - bool: false when no active session matched the token
  - error: Storage failures
*/
func (service *Service) Logout(context context.Context, token string, client activity.Client) (bool, error) {
	now := service.now()

	var entry *activity.Entry
	err := service.store.WithinTransaction(context, func(store Store) error {
		session, err := store.Sessions().FindByTokenHash(context, sec.HashToken(token))
		if err != nil {
			if apperr.IsNotFound(err) {
				return nil
			}
			return err
		}

		ended, err := store.Sessions().End(context, session.ID, now)
		if err != nil || !ended {
			return err
		}

		entry = activity.LoggedOut(session.UserID, session.ID, client, now)
		return store.Activity().Append(context, entry)
	})
	if err != nil {
		return false, fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	if entry == nil {
		return false, nil
	}

	service.mirror.Publish(context, entry)
	ctxutil.GetLogger(context).InfoContext(context, "user_logged_out", slog.Int64("user_id", entry.UserID))
	return true, nil
}

/*
FindActiveSession resolves token to a valid session without side effects.

Description: The session must be active and unexpired, and its owner must
still be ACTIVE. The owner's summary is attached.

Returns:
  - *Session: The session, valid at the current instant
  - error: ErrSessionNotFound, ErrSessionInvalid, or storage failures
*/
func (service *Service) FindActiveSession(context context.Context, token string) (*Session, error) {
	session, err := service.store.Sessions().FindByTokenHash(context, sec.HashToken(token))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("auth_service_find_session_failed: %w", err)
	}
	if !session.IsValid(service.now()) {
		return nil, ErrSessionInvalid
	}

	owner, err := service.store.Users().FindByID(context, session.UserID)
	switch {
	case apperr.IsNotFound(err):
		return nil, ErrSessionInvalid
	case err != nil:
		return nil, fmt.Errorf("auth_service_session_owner_failed: %w", err)
	case !owner.IsActive():
		return nil, ErrSessionInvalid
	}

	session.User = owner.Summary()
	return session, nil
}

/*
ValidateAndUpdateSession resolves token and records a heartbeat on it.

Description: Called on every authenticated request. Moves lastActivity to
now. Rejected tokens leave the stored session untouched.

Returns:
  - *Session: The refreshed session with User populated
  - error: ErrSessionNotFound, ErrSessionInvalid, or storage failures
*/
func (service *Service) ValidateAndUpdateSession(context context.Context, token string) (*Session, error) {
	session, err := service.FindActiveSession(context, token)
	if err != nil {
		return nil, err
	}

	now := service.now()
	if err := service.store.Sessions().Touch(context, session.ID, now); err != nil {
		return nil, fmt.Errorf("auth_service_session_touch_failed: %w", err)
	}

	touched := session.Touched(now)
	return &touched, nil
}

// VerifySession implements middleware.SessionVerifier.
func (service *Service) VerifySession(context context.Context, token string) (*sec.Principal, error) {
	session, err := service.ValidateAndUpdateSession(context, token)
	if err != nil {
		return nil, err
	}

	role := session.User.Role
	if !role.IsValid() {
		ctxutil.GetLogger(context).WarnContext(context, "unknown_role_downgraded",
			slog.Int64("user_id", session.UserID),
			slog.String("role", string(role)),
		)
		role = sec.RoleMember
	}

	return &sec.Principal{
		UserID:    session.UserID,
		Username:  session.User.Username,
		Role:      role,
		SessionID: session.ID,
		Token:     token,
	}, nil
}

/*
EndAllUserSessions deactivates every session of a user.

Description: Sessions lose their active flag; logoutAt is left unset so these
remain distinguishable from explicit logouts.

Returns:
  - bool: true on success, false if the bulk update failed (the failure is logged)
*/
func (service *Service) EndAllUserSessions(context context.Context, userID int64) bool {
	logger := ctxutil.GetLogger(context)

	count, err := service.store.Sessions().DeactivateAllByUser(context, userID)
	if err != nil {
		logger.ErrorContext(context, "end_all_sessions_failed", slog.Int64("user_id", userID), slog.Any("error", err))
		return false
	}

	logger.InfoContext(context, "all_sessions_ended", slog.Int64("user_id", userID), slog.Int64("count", count))
	return true
}

// CountActiveUserSessions counts sessions with the active flag, whatever their expiry.
func (service *Service) CountActiveUserSessions(context context.Context, userID int64) (int64, error) {
	count, err := service.store.Sessions().CountActiveByUser(context, userID)
	if err != nil {
		return 0, fmt.Errorf("auth_service_count_sessions_failed: %w", err)
	}
	return count, nil
}

// ListUserSessions returns the user's sessions that are valid now, newest first.
func (service *Service) ListUserSessions(context context.Context, userID int64) ([]*Session, error) {
	sessions, err := service.store.Sessions().ListByUser(context, userID, true)
	if err != nil {
		return nil, fmt.Errorf("auth_service_list_sessions_failed: %w", err)
	}

	now := service.now()
	return slice.Filter(sessions, func(session *Session) bool { return session.IsValid(now) }), nil
}

/*
RevokeSession ends one of the caller's own sessions by ID.

Returns:
  - error: apperr.NotFound when the session does not exist or belongs to someone else
*/
func (service *Service) RevokeSession(context context.Context, userID, sessionID int64, client activity.Client) error {
	now := service.now()

	var entry *activity.Entry
	err := service.store.WithinTransaction(context, func(store Store) error {
		session, err := store.Sessions().FindByID(context, sessionID)
		if err != nil {
			return err
		}
		if session.UserID != userID {
			return apperr.NotFound("Session")
		}

		ended, err := store.Sessions().End(context, session.ID, now)
		if err != nil || !ended {
			return err
		}

		entry = activity.LoggedOut(userID, session.ID, client, now)
		return store.Activity().Append(context, entry)
	})
	if err != nil {
		return fmt.Errorf("auth_service_revoke_session_failed: %w", err)
	}

	service.mirror.Publish(context, entry)
	return nil
}

/*
ExtendSession pushes the expiry of a valid session to now plus the session TTL.

Returns:
  - *Session: The session with its new expiry
  - error: ErrSessionNotFound, ErrSessionInvalid, or storage failures
*/
func (service *Service) ExtendSession(context context.Context, token string) (*Session, error) {
	session, err := service.FindActiveSession(context, token)
	if err != nil {
		return nil, err
	}

	extended := session.Extended(service.sessionTTL, service.now())
	if err := service.store.Sessions().Extend(context, extended.ID, *extended.ExpiresAt); err != nil {
		return nil, fmt.Errorf("auth_service_extend_session_failed: %w", err)
	}
	return &extended, nil
}
