// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package activity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/streamvault/internal/platform/ctxutil"
	"github.com/taibuivan/streamvault/pkg/pagination"
	"github.com/taibuivan/streamvault/pkg/slice"
)

// # History

// Service exposes the audit trail to its owner.
type Service struct {
	repository Repository
}

// NewService constructs a [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

/*
History returns one page of the user's audit trail, newest first.

Parameters:
  - context: context.Context
  - userID: int64
  - params: pagination.Params

Returns:
  - []*Entry: Entries on the requested page
  - pagination.Meta: Page metadata
  - error: Storage errors
*/
func (service *Service) History(context context.Context, userID int64, params pagination.Params) ([]*Entry, pagination.Meta, error) {
	entries, total, err := service.repository.ListByUser(context, userID, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("activity_service_history_failed: %w", err)
	}
	return entries, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// # Mirroring

// Mirror forwards entries that are already committed to a [Publisher].
// One Mirror is shared by every service that appends activity.
type Mirror struct {
	publisher Publisher
}

// NewMirror wraps publisher. A nil publisher is replaced by [NopPublisher].
func NewMirror(publisher Publisher) *Mirror {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Mirror{publisher: publisher}
}

// Publish drops nil entries and logs broker failures instead of returning them.
func (mirror *Mirror) Publish(context context.Context, entries ...*Entry) {
	entries = slice.Filter(entries, func(entry *Entry) bool { return entry != nil })
	if len(entries) == 0 {
		return
	}
	if err := mirror.publisher.Publish(context, entries...); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "activity_publish_failed",
			slog.Int("count", len(entries)),
			slog.Any("error", err),
		)
	}
}
