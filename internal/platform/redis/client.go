// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis provides the managed client behind single-use account tokens.

Email verification and password reset tokens live here under a TTL and are
consumed atomically with GETDEL, so a token that was used once cannot be
replayed.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ioTimeout   = 2 * time.Second
	pingTimeout = 2 * time.Second
)

/*
NewClient builds a client from a redis:// URL and pings it once.

Parameters:
  - context: stdctx.Context (bounds the ping)
  - redisURL: string
  - poolSize: int (0 keeps the go-redis default of 10 per CPU)
  - logger: *slog.Logger

Returns:
  - *redis.Client: A client that answered PING
  - error: URL parse or connectivity failure
*/
func NewClient(context stdctx.Context, redisURL string, poolSize int, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis_parse_url_failed: %w", err)
	}

	if poolSize > 0 {
		options.PoolSize = poolSize
	}
	options.ReadTimeout = ioTimeout
	options.WriteTimeout = ioTimeout

	client := redis.NewClient(options)
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
	)
	return client, nil
}

// Ping checks the client within a short deadline.
func Ping(context stdctx.Context, client *redis.Client) error {
	context, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(context).Err(); err != nil {
		return fmt.Errorf("redis_ping_failed: %w", err)
	}
	return nil
}
