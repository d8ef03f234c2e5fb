// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Lifetimes

const (
	DefaultSessionTTL    = 30 * 24 * time.Hour
	ResetTokenTTL        = time.Hour
	VerificationTokenTTL = 24 * time.Hour
)

// # Token Entropy (random bytes before encoding)

const (
	SessionTokenLength      = 32
	ResetTokenLength        = 32
	VerificationTokenLength = 32
)

// # Password Policy

const (
	PasswordMinLength = 8
	PasswordMaxLength = 72 // bcrypt ignores input past 72 bytes
)

// # JSON Field Names

const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldIdentifier      = "username_or_email"
	FieldToken           = "token"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldStatus          = "status"
	FieldMessage         = "message"
)
