// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"log/slog"
)

// Notifier delivers one-time tokens to the account owner out of band.
type Notifier interface {
	SendVerification(ctx context.Context, user *User, token string) error
	SendPasswordReset(ctx context.Context, user *User, token string) error
}

// LogNotifier writes delivery requests to the log. Used until a mail relay is wired.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier constructs a [LogNotifier].
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// SendVerification implements [Notifier].
func (notifier *LogNotifier) SendVerification(ctx context.Context, user *User, token string) error {
	notifier.logger.InfoContext(ctx, "verification_token_issued",
		slog.Int64("user_id", user.ID),
		slog.String("token_hint", hint(token)),
	)
	return nil
}

// SendPasswordReset implements [Notifier].
func (notifier *LogNotifier) SendPasswordReset(ctx context.Context, user *User, token string) error {
	notifier.logger.InfoContext(ctx, "password_reset_token_issued",
		slog.Int64("user_id", user.ID),
		slog.String("token_hint", hint(token)),
	)
	return nil
}

// hint keeps a short prefix of a token for correlation.
func hint(token string) string {
	if len(token) <= 6 {
		return "***"
	}
	return token[:6] + "***"
}
