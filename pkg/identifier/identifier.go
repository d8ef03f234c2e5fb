// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package identifier canonicalises login identifiers (usernames and emails).
//
// # Usage
//
// The folded key is what uniqueness constraints and lookups compare against,
// so "Alice", "ALICE" and "alice" resolve to the same account.
package identifier

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Key converts an identifier into its case-insensitive lookup key.
//
// # Transformation Pipeline
//
// 1. Trims surrounding whitespace.
// 2. Normalizes to NFKC (compatibility forms: full-width "Ａ" → "A").
// 3. Applies Unicode case folding (a stronger, locale-free lowercase).
func Key(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	chain := transform.Chain(norm.NFKC, cases.Fold())
	folded, _, err := transform.String(chain, trimmed)
	if err != nil {
		return strings.ToLower(trimmed)
	}

	return folded
}

// IsEmail reports whether the identifier should be matched against the email column.
func IsEmail(raw string) bool {
	return strings.Contains(raw, "@")
}
