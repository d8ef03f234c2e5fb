// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer holds small generic pointer helpers.
package pointer

// To returns a pointer to a copy of v, e.g. pointer.To(now.Add(ttl)) for an
// optional timestamp field.
func To[T any](v T) *T {
	return &v
}
