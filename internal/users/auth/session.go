// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"time"

	"github.com/taibuivan/streamvault/pkg/pointer"
)

// Session is a server-side login session addressed by an opaque bearer token.
//
// Only the SHA-256 digest of the token is stored. Token carries the plaintext
// exactly once, in the Login response.
type Session struct {
	ID           int64        `json:"id"`
	UserID       int64        `json:"user_id"`
	Token        string       `json:"session_token,omitempty"`
	TokenHash    string       `json:"-"`
	IPAddress    string       `json:"ip_address,omitempty"`
	UserAgent    string       `json:"user_agent,omitempty"`
	DeviceInfo   string       `json:"device_info,omitempty"`
	LoginAt      time.Time    `json:"login_at"`
	LastActivity *time.Time   `json:"last_activity,omitempty"`
	LogoutAt     *time.Time   `json:"logout_at,omitempty"`
	IsActive     bool         `json:"is_active"`
	ExpiresAt    *time.Time   `json:"expires_at,omitempty"`
	User         *UserSummary `json:"user,omitempty"`
}

// Equal reports identity equality.
func (s *Session) Equal(other *Session) bool {
	return s != nil && other != nil && s.ID == other.ID
}

// IsValid reports whether the session is active and not expired at now.
// A session without an expiry never expires.
func (s *Session) IsValid(now time.Time) bool {
	return s.IsActive && (s.ExpiresAt == nil || s.ExpiresAt.After(now))
}

// Touched returns a copy with the heartbeat moved to now.
func (s Session) Touched(now time.Time) Session {
	s.LastActivity = &now
	return s
}

// Ended returns a copy terminated by an explicit logout at now.
func (s Session) Ended(now time.Time) Session {
	s.IsActive = false
	s.LogoutAt = &now
	return s
}

// Extended returns a copy expiring ttl after now.
func (s Session) Extended(ttl time.Duration, now time.Time) Session {
	s.ExpiresAt = pointer.To(now.Add(ttl))
	return s
}
