// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the user identity and session management layer.

It defines the core domain entities (User, AccountSecurity, Session) and the
logic for credential verification, brute-force lockout, and the opaque
session-token lifecycle.

# Architecture

Entities are plain values. State transitions are explicit functions that take
the old state and the current instant and return the new state, so the
service layer owns the clock and every rule is testable without a database.
*/
package auth

import (
	"time"

	"github.com/taibuivan/streamvault/internal/platform/sec"
)

// # Account Status

// UserStatus is the lifecycle state of an account.
type UserStatus string

const (
	StatusActive    UserStatus = "ACTIVE"
	StatusInactive  UserStatus = "INACTIVE"
	StatusSuspended UserStatus = "SUSPENDED"
	StatusBanned    UserStatus = "BANNED"
)

// IsValid reports whether s is a known status.
func (s UserStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended, StatusBanned:
		return true
	}
	return false
}

// # Domain Entities

// User represents a registered member of the StreamVault platform.
type User struct {
	ID            int64        `json:"id"`
	Username      string       `json:"username"`
	Email         string       `json:"email"`
	PasswordHash  string       `json:"-"`
	Status        UserStatus   `json:"status"`
	Role          sec.UserRole `json:"role"`
	EmailVerified bool         `json:"email_verified"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// UserSummary is the public projection of a user embedded in session payloads.
type UserSummary struct {
	ID            int64        `json:"id"`
	Username      string       `json:"username"`
	Email         string       `json:"email"`
	Role          sec.UserRole `json:"role"`
	EmailVerified bool         `json:"email_verified"`
}

// Equal reports identity equality.
func (u *User) Equal(other *User) bool {
	return u != nil && other != nil && u.ID == other.ID
}

// IsActive reports whether the account may authenticate.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// Summary returns the public projection of u.
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		Role:          u.Role,
		EmailVerified: u.EmailVerified,
	}
}

// WithStatus returns a copy of u in the given status.
func (u User) WithStatus(status UserStatus, now time.Time) User {
	u.Status = status
	u.UpdatedAt = now
	return u
}

// WithPassword returns a copy of u carrying a new password hash.
func (u User) WithPassword(hash string, now time.Time) User {
	u.PasswordHash = hash
	u.UpdatedAt = now
	return u
}

// WithEmailVerified returns a copy of u with the email marked verified.
func (u User) WithEmailVerified(now time.Time) User {
	u.EmailVerified = true
	u.UpdatedAt = now
	return u
}
