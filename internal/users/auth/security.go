// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"time"

	"github.com/taibuivan/streamvault/pkg/pointer"
)

// # Lockout Policy

// LockoutPolicy configures brute-force protection.
type LockoutPolicy struct {
	// Threshold is the failed-attempt count at which the account locks.
	Threshold int
	// Duration is how long the lock lasts once applied.
	Duration time.Duration
}

// DefaultLockoutPolicy locks for 30 minutes after 5 consecutive failures.
var DefaultLockoutPolicy = LockoutPolicy{Threshold: 5, Duration: 30 * time.Minute}

// # Account Security

// AccountSecurity holds the per-user brute-force counters. Exactly one exists per user.
//
// States: NORMAL (no lock), LOCKED (lock in the future), and a lapsed lock, which
// behaves as NORMAL but keeps its counter until the next successful login.
type AccountSecurity struct {
	UserID              int64      `json:"user_id"`
	FailedLoginAttempts int        `json:"failed_login_attempts"`
	LastFailedLogin     *time.Time `json:"last_failed_login,omitempty"`
	AccountLockedUntil  *time.Time `json:"account_locked_until,omitempty"`
	PasswordChangedAt   *time.Time `json:"password_changed_at,omitempty"`
	TwoFactorEnabled    bool       `json:"two_factor_enabled"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// NewAccountSecurity returns the initial NORMAL state for a new account.
func NewAccountSecurity(userID int64, now time.Time) AccountSecurity {
	return AccountSecurity{UserID: userID, CreatedAt: now, UpdatedAt: now}
}

// Equal reports identity equality.
func (s *AccountSecurity) Equal(other *AccountSecurity) bool {
	return s != nil && other != nil && s.UserID == other.UserID
}

// IsLocked reports whether a lock is in force at now.
func (s AccountSecurity) IsLocked(now time.Time) bool {
	return s.AccountLockedUntil != nil && s.AccountLockedUntil.After(now)
}

// RecordFailure returns the state after one more wrong password.
//
// Reaching the threshold (re)applies the lock from now. A lapsed lock with a
// counter still at or above the threshold relocks on the next failure.
func (s AccountSecurity) RecordFailure(policy LockoutPolicy, now time.Time) AccountSecurity {
	s.FailedLoginAttempts++
	s.LastFailedLogin = &now
	if s.FailedLoginAttempts >= policy.Threshold {
		s.AccountLockedUntil = pointer.To(now.Add(policy.Duration))
	}
	s.UpdatedAt = now
	return s
}

// RecordSuccess returns the NORMAL state after a successful authentication.
func (s AccountSecurity) RecordSuccess(now time.Time) AccountSecurity {
	s.FailedLoginAttempts = 0
	s.LastFailedLogin = nil
	s.AccountLockedUntil = nil
	s.UpdatedAt = now
	return s
}

// WithPasswordChanged returns a copy stamped with a credential change.
func (s AccountSecurity) WithPasswordChanged(now time.Time) AccountSecurity {
	s.PasswordChangedAt = &now
	s.UpdatedAt = now
	return s
}
