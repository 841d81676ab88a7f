package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReplayCache is the fast-path reservation for message fingerprints. It is
// an optimization in front of the unique index on messages; a cache miss is
// never treated as proof the message is new.
type ReplayCache interface {
	// Reserve claims the fingerprint. It returns false when another pipeline
	// run already holds or completed it.
	Reserve(ctx context.Context, fingerprint string, ttl time.Duration) (bool, error)
	// Release frees a reservation after a failed core write so the channel
	// retry is not falsely deduplicated.
	Release(ctx context.Context, fingerprint string) error
}

type redisReplayCache struct {
	client *redis.Client
}

// NewReplayCache builds a Redis-backed replay cache.
func NewReplayCache(client *redis.Client) ReplayCache {
	return &redisReplayCache{client: client}
}

func (c *redisReplayCache) Reserve(ctx context.Context, fingerprint string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, replayKey(fingerprint), "1", ttl).Result()
}

func (c *redisReplayCache) Release(ctx context.Context, fingerprint string) error {
	return c.client.Del(ctx, replayKey(fingerprint)).Err()
}

func replayKey(fingerprint string) string {
	return "inbound:fp:" + fingerprint
}
