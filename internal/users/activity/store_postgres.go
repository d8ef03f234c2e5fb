// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/taibuivan/streamvault/internal/platform/database/schema"
	"github.com/taibuivan/streamvault/internal/platform/dberr"
	"github.com/taibuivan/streamvault/internal/platform/postgres"
)

// PostgresRepository implements [Repository] on users.activitylog.
type PostgresRepository struct {
	db postgres.Querier
}

// NewRepository binds the repository to a pool or an open transaction.
func NewRepository(db postgres.Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

/*
Append inserts a single audit entry.

Parameters:
  - context: context.Context
  - entry: *Entry (ID and CreatedAt already assigned)

Returns:
  - error: Encoding or storage errors
*/
func (repository *PostgresRepository) Append(context context.Context, entry *Entry) error {
	table := schema.UserActivityLog
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8)`,
		table.Table, strings.Join(table.Columns(), ", "))

	var metadata []byte
	if len(entry.Metadata) > 0 {
		encoded, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("activity_metadata_encode_failed: %w", err)
		}
		metadata = encoded
	}

	_, err := repository.db.Exec(context, query,
		entry.ID,
		entry.UserID,
		entry.Action,
		entry.Description,
		metadata,
		entry.IPAddress,
		entry.UserAgent,
		entry.CreatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "postgres_activity_append")
	}

	return nil
}

/*
ListByUser returns one page of a user's audit trail, newest first.

Parameters:
  - context: context.Context
  - userID: int64
  - limit, offset: int

Returns:
  - []*Entry: The page of entries
  - int: Total number of entries for the user
  - error: Storage errors
*/
func (repository *PostgresRepository) ListByUser(context context.Context, userID int64, limit, offset int) ([]*Entry, int, error) {
	table := schema.UserActivityLog

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, table.Table, table.UserID)
	if err := repository.db.QueryRow(context, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "postgres_activity_count")
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, COALESCE(%s, ''), COALESCE(%s, ''), %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC, %s DESC
		LIMIT $2 OFFSET $3`,
		table.ID, table.UserID, table.Action, table.Description, table.Metadata,
		table.IPAddress, table.UserAgent, table.CreatedAt,
		table.Table, table.UserID, table.CreatedAt, table.ID)

	rows, err := repository.db.Query(context, query, userID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "postgres_activity_list")
	}
	defer rows.Close()

	entries := make([]*Entry, 0, limit)
	for rows.Next() {
		var (
			entry    Entry
			metadata []byte
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Action,
			&entry.Description,
			&metadata,
			&entry.IPAddress,
			&entry.UserAgent,
			&entry.CreatedAt,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "postgres_activity_scan")
		}

		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
				return nil, 0, fmt.Errorf("activity_metadata_decode_failed: %w", err)
			}
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "postgres_activity_rows")
	}

	return entries, total, nil
}
