// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package activity

import "context"

// Repository defines append and read access to the audit trail.
//
// Entries are append-only.
type Repository interface {
	// Append persists a new entry. The entry ID must already be set.
	Append(ctx context.Context, entry *Entry) error

	// ListByUser returns a user's entries newest first, plus the total count.
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*Entry, int, error)
}

// Publisher mirrors committed entries to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, entries ...*Entry) error
}
