// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import "github.com/taibuivan/streamvault/internal/platform/apperr"

const (
	CodePINRequired = "PIN_REQUIRED"
	CodePINMismatch = "PIN_MISMATCH"
)

var (
	// ErrPINRequired is returned when a PIN-gated change arrives without one.
	ErrPINRequired = apperr.Forbidden("Parental control PIN required").WithCode(CodePINRequired)

	// ErrPINMismatch is returned when the supplied PIN does not match the stored hash.
	ErrPINMismatch = apperr.Forbidden("Parental control PIN is incorrect").WithCode(CodePINMismatch)
)
