// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgx shared by [pgxpool.Pool] and [pgx.Tx].
//
// Repositories accept a Querier so the same code runs inside or outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxBeginner starts transactions. Satisfied by [pgxpool.Pool].
type TxBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

/*
WithinTx runs fn inside a READ COMMITTED transaction.

The transaction commits when fn returns nil and rolls back otherwise,
including when ctx is cancelled mid-flight.

Parameters:
  - ctx: context.Context (deadline bounds the whole unit of work)
  - db: TxBeginner
  - fn: func(pgx.Tx) error

Returns:
  - error: The error returned by fn, or a begin/commit failure
*/
func WithinTx(ctx context.Context, db TxBeginner, fn func(tx pgx.Tx) error) error {
	err := pgx.BeginTxFunc(ctx, db, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
	if err != nil {
		return fmt.Errorf("postgres_tx: %w", err)
	}
	return nil
}
