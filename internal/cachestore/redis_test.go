package cachestore

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func redisAvailable(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "localhost:6379",
		DialTimeout: 100 * time.Millisecond,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestRedisSubstrate(t *testing.T) {
	client := redisAvailable(t)
	ns := "novelreader:test:"

	s := New(NewRedisSubstrate(client), WithNamespace(ns), WithLogger(zap.NewNop()))
	defer s.Clear()

	s.Set("a", "value", time.Hour)
	s.Set("b", 42, time.Hour)

	got, ok := Lookup[string](s, "a")
	require.True(t, ok)
	assert.Equal(t, "value", got)

	assert.ElementsMatch(t, []string{"a", "b"}, s.Keys())
	assert.Equal(t, 2, s.Stats().ItemCount)

	s.Remove("a")
	_, ok = Lookup[string](s, "a")
	assert.False(t, ok)
}
