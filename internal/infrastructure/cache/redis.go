// Package cache wraps the Redis client behind the small surface the
// usecases need: JSON get/set, delete, and a NX lock primitive.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"careerpilot/internal/config"
	"careerpilot/internal/usecase"
)

const (
	defaultTTL     = 10 * time.Minute
	defaultLockTTL = 30 * time.Second
)

// Redis backs the insight read-through cache and the refresh-run lock.
// When the server is unreachable the cache degrades to a bypass: reads
// miss, writes are dropped, and callers fall through to Postgres.
type Redis struct {
	client *redis.Client
	logger *log.Logger
	warned atomic.Bool
}

// NewRedis dials the server once. If it cannot be reached the returned
// cache runs in bypass mode instead of failing startup.
func NewRedis(cfg config.RedisConfig, logger *log.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		Password: cfg.Password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		if logger != nil {
			logger.Printf("[Cache] Redis unavailable, bypassing cache: %v", err)
		}
		_ = client.Close()
		client = nil
	}

	return &Redis{client: client, logger: logger}
}

func (r *Redis) bypassed() bool {
	return r == nil || r.client == nil
}

// fail logs the first transport failure and returns the error untouched.
func (r *Redis) fail(err error) error {
	if r != nil && r.logger != nil && r.warned.CompareAndSwap(false, true) {
		r.logger.Printf("[Cache] Redis unavailable, bypassing cache: %v", err)
	}
	return err
}

func (r *Redis) Ping(ctx context.Context) error {
	if r.bypassed() {
		return errors.New("redis unavailable")
	}
	return r.client.Ping(ctx).Err()
}

// GetJSON reports whether key was present and decoded into out.
func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if r.bypassed() {
		return false, nil
	}

	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return false, nil
	case err != nil:
		return false, r.fail(err)
	case len(raw) == 0:
		return false, nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if r.bypassed() {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return r.fail(err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if r.bypassed() {
		return nil
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return r.fail(err)
	}
	return nil
}

// SetIfNotExists is the lock primitive behind the refresh scheduler.
// Bypass mode reports ErrCacheUnavailable rather than a held lock, so
// callers can tell "someone else runs" apart from "no lock exists".
func (r *Redis) SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	if r.bypassed() {
		return false, usecase.ErrCacheUnavailable
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}

	acquired, err := r.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, r.fail(err)
	}
	return acquired, nil
}
