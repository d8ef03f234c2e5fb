// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package uuidv7 issues time-ordered identifiers.
//
// Activity entries and request IDs use them: the value exists before any row
// is written, and lexical order follows creation order.
package uuidv7

import "github.com/google/uuid"

// New returns a canonical UUIDv7 string. It panics only when the OS random
// source fails.
func New() string {
	return uuid.Must(uuid.NewV7()).String()
}
