package db

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"hangoutspots/config"
)

var RedisClient *redis.Client

// ConnectRedis initializes the Redis client used for the leaderboard cache.
// Redis is optional: a failed ping leaves the client usable and callers fall
// back to querying MongoDB directly.
func ConnectRedis(cfg *config.Config) error {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return RedisClient.Ping(ctx).Err()
}

// CacheGetBytes returns cached bytes for a key from Redis.
func CacheGetBytes(ctx context.Context, key string) ([]byte, bool) {
	if RedisClient == nil {
		return nil, false
	}
	b, err := RedisClient.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return b, true
}

// CacheSetBytes stores bytes with the given TTL, best-effort.
func CacheSetBytes(ctx context.Context, key string, b []byte, ttl time.Duration) {
	if RedisClient == nil {
		return
	}
	_ = RedisClient.Set(ctx, key, b, ttl).Err()
}

// CacheDelete removes a key, best-effort.
func CacheDelete(ctx context.Context, key string) {
	if RedisClient == nil {
		return
	}
	_ = RedisClient.Del(ctx, key).Err()
}
