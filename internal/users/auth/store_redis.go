// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/streamvault/internal/platform/apperr"
	"github.com/taibuivan/streamvault/internal/platform/constants"
	"github.com/taibuivan/streamvault/internal/platform/sec"
)

// RedisTokenStore implements [TokenStore] on Redis keys with a TTL.
//
// Keys are prefix + SHA-256(token) so a dump of the keyspace never reveals a usable token.
type RedisTokenStore struct {
	client *redis.Client
	prefix string
}

// NewVerificationTokenStore stores email verification tokens.
func NewVerificationTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client, prefix: constants.RedisPrefixVerifyToken}
}

// NewResetTokenStore stores password reset tokens.
func NewResetTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client, prefix: constants.RedisPrefixResetToken}
}

func (repository *RedisTokenStore) key(token string) string {
	return repository.prefix + sec.HashToken(token)
}

/*
Set stores a token with its associated userID and TTL.

Parameters:
  - context: context.Context
  - token: string
  - userID: int64
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisTokenStore) Set(context context.Context, token string, userID int64, ttl time.Duration) error {
	if err := repository.client.Set(context, repository.key(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_token_set_failed: %w", err)
	}
	return nil
}

/*
Consume retrieves the userID for a token and deletes it in one round trip.

Description: Uses GETDEL so a token can be redeemed exactly once even under
concurrent requests.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - int64: Owner of the token
  - error: apperr.NotFound when absent or expired, or connectivity errors
*/
func (repository *RedisTokenStore) Consume(context context.Context, token string) (int64, error) {
	raw, err := repository.client.GetDel(context, repository.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, apperr.NotFound("Token")
		}
		return 0, fmt.Errorf("redis_token_consume_failed: %w", err)
	}

	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("redis_token_decode_failed: %w", err)
	}
	return userID, nil
}
