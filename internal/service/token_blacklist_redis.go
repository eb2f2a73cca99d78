package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisTokenBlacklist keeps revoked jtis as keys whose TTL is the remaining
// refresh-token lifetime, so redis expiry is the garbage collector. SET NX
// gives the same insert-if-absent semantics as the database store.
type RedisTokenBlacklist struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisTokenBlacklist(client redis.UniversalClient, prefix string) *RedisTokenBlacklist {
	if prefix == "" {
		prefix = "token_blacklist"
	}
	return &RedisTokenBlacklist{client: client, prefix: prefix}
}

func (b *RedisTokenBlacklist) Add(ctx context.Context, tokenID string, userID uuid.UUID, reason string, expiresAt time.Time) (bool, error) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Already past natural expiry; verification would reject it anyway.
		return true, nil
	}
	ok, err := b.client.SetNX(ctx, b.key(tokenID), userID.String()+":"+reason, ttl).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (b *RedisTokenBlacklist) Contains(ctx context.Context, tokenID string) (bool, error) {
	n, err := b.client.Exists(ctx, b.key(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (b *RedisTokenBlacklist) key(tokenID string) string {
	return fmt.Sprintf("%s:%s", b.prefix, tokenID)
}
