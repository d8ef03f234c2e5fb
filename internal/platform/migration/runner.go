// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package migration applies the SQL files under data/migrations with
golang-migrate before the API starts serving.

The files create the users schema: account, security, session, activity log,
profile and preference. A dirty schema version stops startup; it needs an
operator, not a retry.
*/
package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

/*
RunUp migrates the database to the newest version found in migrationsPath.

Parameters:
  - ctx: context.Context (cancellation stops after the running migration)
  - dsn: string (postgres:// URL, rewritten for the pgx5 driver)
  - migrationsPath: string (directory of NNNNNN_name.{up,down}.sql files)
  - logger: *slog.Logger

Returns:
  - error: Dirty schema, driver or SQL failure. Already current is not an error.
*/
func RunUp(ctx context.Context, dsn, migrationsPath string, logger *slog.Logger) error {
	migrator, err := migrate.New("file://"+migrationsPath, ToPgx5DSN(dsn))
	if err != nil {
		return fmt.Errorf("migration_open_failed: %w", err)
	}
	defer func() {
		sourceErr, databaseErr := migrator.Close()
		if closeErr := errors.Join(sourceErr, databaseErr); closeErr != nil {
			logger.Warn("migration_close_failed", slog.Any("error", closeErr))
		}
	}()
	migrator.Log = slogAdapter{logger: logger}

	from, err := version(migrator)
	if err != nil {
		return err
	}

	stop := context.AfterFunc(ctx, func() { migrator.GracefulStop <- true })
	defer stop()

	switch err := migrator.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("migration_up_to_date", slog.Uint64("version", uint64(from)))
		return nil
	case err != nil:
		return fmt.Errorf("migration_up_failed: %w", err)
	}

	to, err := version(migrator)
	if err != nil {
		return err
	}
	logger.Info("migration_applied",
		slog.Uint64("from_version", uint64(from)),
		slog.Uint64("to_version", uint64(to)),
	)
	return nil
}

// version returns 0 for an empty database.
func version(migrator *migrate.Migrate) (uint, error) {
	current, dirty, err := migrator.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("migration_version_failed: %w", err)
	case dirty:
		return current, fmt.Errorf("migration_dirty: version %d needs manual repair", current)
	}
	return current, nil
}

// ToPgx5DSN switches postgres:// and postgresql:// URLs to the pgx5:// scheme
// registered by the golang-migrate pgx/v5 driver. Other inputs pass through.
func ToPgx5DSN(dsn string) string {
	scheme, rest, found := strings.Cut(dsn, "://")
	if found && (scheme == "postgres" || scheme == "postgresql") {
		return "pgx5://" + rest
	}
	return dsn
}

// slogAdapter satisfies migrate.Logger. Per-file progress goes to debug.
type slogAdapter struct {
	logger *slog.Logger
}

func (adapter slogAdapter) Printf(format string, args ...any) {
	adapter.logger.Debug("migration_progress", slog.String("detail", strings.TrimSpace(fmt.Sprintf(format, args...))))
}

func (adapter slogAdapter) Verbose() bool { return false }
