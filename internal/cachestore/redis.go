package cachestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisOpTimeout   = 500 * time.Millisecond
	redisScanTimeout = 5 * time.Second
)

// RedisSubstrate stores items as plain Redis strings. Expiry is handled by
// the Store envelope, not by Redis TTLs.
type RedisSubstrate struct {
	client *redis.Client
}

func NewRedisSubstrate(client *redis.Client) *RedisSubstrate {
	return &RedisSubstrate{client: client}
}

func (r *RedisSubstrate) GetItem(key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	v, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *RedisSubstrate) SetItem(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	err := r.client.Set(ctx, key, value, 0).Err()
	if err != nil && strings.Contains(err.Error(), "OOM") {
		return ErrQuotaExceeded
	}
	return err
}

func (r *RedisSubstrate) RemoveItem(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return r.client.Del(ctx, key).Err()
}

func (r *RedisSubstrate) Keys(prefix string) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisScanTimeout)
	defer cancel()

	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := r.client.Scan(ctx, cursor, escapeGlob(prefix)+"*", 100).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}

func escapeGlob(s string) string {
	return strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`).Replace(s)
}
