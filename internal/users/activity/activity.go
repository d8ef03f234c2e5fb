// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package activity implements the append-only audit trail of account actions.

Entries are written by the auth and account services, usually inside the same
database transaction as the state change they describe, and may be mirrored
to a message broker once that transaction commits.

Architecture:

  - Entry: An immutable record of a single user action.
  - Repository: Append and read access to the users.activitylog table.
  - Publisher: Best-effort fan-out of committed entries (Kafka or no-op).
*/
package activity

import (
	"time"

	"github.com/taibuivan/streamvault/pkg/uuidv7"
)

// # Actions

// Action is the kind of user action recorded in the audit trail.
type Action string

const (
	ActionLogin          Action = "LOGIN"
	ActionLogout         Action = "LOGOUT"
	ActionRegister       Action = "REGISTER"
	ActionProfileUpdate  Action = "PROFILE_UPDATE"
	ActionPasswordChange Action = "PASSWORD_CHANGE"
	ActionSubscription   Action = "SUBSCRIPTION_CHANGE"
	ActionContentView    Action = "CONTENT_VIEW"
	ActionSearch         Action = "SEARCH"
	ActionReview         Action = "REVIEW"
	ActionRating         Action = "RATING"
)

// IsValid reports whether a is a known action.
func (a Action) IsValid() bool {
	switch a {
	case ActionLogin, ActionLogout, ActionRegister, ActionProfileUpdate, ActionPasswordChange,
		ActionSubscription, ActionContentView, ActionSearch, ActionReview, ActionRating:
		return true
	}
	return false
}

// # Entities

// Client describes where a request originated.
type Client struct {
	IPAddress  string `json:"ip_address,omitempty"`
	UserAgent  string `json:"user_agent,omitempty"`
	DeviceInfo string `json:"device_info,omitempty"`
}

// Entry is a single immutable audit record.
type Entry struct {
	ID          string         `json:"id"`
	UserID      int64          `json:"user_id"`
	Action      Action         `json:"action"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	IPAddress   string         `json:"ip_address,omitempty"`
	UserAgent   string         `json:"user_agent,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Equal reports identity equality. Two entries are the same record iff their IDs match.
func (e *Entry) Equal(other *Entry) bool {
	return e != nil && other != nil && e.ID == other.ID
}

// # Constructors

// NewEntry builds an entry with a fresh time-ordered identifier.
func NewEntry(userID int64, action Action, description string, client Client, metadata map[string]any, now time.Time) *Entry {
	return &Entry{
		ID:          uuidv7.New(),
		UserID:      userID,
		Action:      action,
		Description: description,
		Metadata:    metadata,
		IPAddress:   client.IPAddress,
		UserAgent:   client.UserAgent,
		CreatedAt:   now,
	}
}

// LoginSucceeded records a successful authentication that opened a session.
func LoginSucceeded(userID, sessionID int64, client Client, now time.Time) *Entry {
	metadata := map[string]any{"status": "success", "session_id": sessionID}
	if client.DeviceInfo != "" {
		metadata["device_info"] = client.DeviceInfo
	}
	return NewEntry(userID, ActionLogin, "User logged in", client, metadata, now)
}

// LoginFailed records a wrong-password attempt and the resulting counter state.
func LoginFailed(userID int64, attempts int, locked bool, client Client, now time.Time) *Entry {
	metadata := map[string]any{
		"status":          "failed",
		"reason":          "invalid_password",
		"failed_attempts": attempts,
		"account_locked":  locked,
	}
	return NewEntry(userID, ActionLogin, "Failed login attempt", client, metadata, now)
}

// LoggedOut records the end of a single session.
func LoggedOut(userID, sessionID int64, client Client, now time.Time) *Entry {
	return NewEntry(userID, ActionLogout, "User logged out", client, map[string]any{"session_id": sessionID}, now)
}

// Registered records account creation.
func Registered(userID int64, client Client, now time.Time) *Entry {
	return NewEntry(userID, ActionRegister, "User registered", client, nil, now)
}

// PasswordChanged records a credential change. Method is "change" or "reset".
func PasswordChanged(userID int64, method string, revokedSessions int64, client Client, now time.Time) *Entry {
	metadata := map[string]any{"method": method, "revoked_sessions": revokedSessions}
	return NewEntry(userID, ActionPasswordChange, "Password changed", client, metadata, now)
}

// ProfileUpdated records which profile or preference fields changed.
func ProfileUpdated(userID int64, description string, changed []string, client Client, now time.Time) *Entry {
	return NewEntry(userID, ActionProfileUpdate, description, client, map[string]any{"changed_fields": changed}, now)
}
