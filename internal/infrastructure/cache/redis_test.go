package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"careerpilot/internal/config"
	"careerpilot/internal/usecase"
)

// Port 1 is never a Redis server, so NewRedis lands in bypass mode.
func newBypassedRedis() *Redis {
	return NewRedis(config.RedisConfig{Host: "127.0.0.1", Port: "1"}, nil)
}

func TestRedisBypass_ReadsAndWritesAreNoOps(t *testing.T) {
	r := newBypassedRedis()
	ctx := context.Background()

	var out map[string]string
	hit, err := r.GetJSON(ctx, "insight:tech", &out)
	if err != nil || hit {
		t.Fatalf("bypassed read must miss silently, got hit=%v err=%v", hit, err)
	}
	if err := r.SetJSON(ctx, "insight:tech", map[string]string{"k": "v"}, time.Minute); err != nil {
		t.Fatalf("bypassed write must be a no-op, got %v", err)
	}
	if err := r.Delete(ctx, "insight:tech"); err != nil {
		t.Fatalf("bypassed delete must be a no-op, got %v", err)
	}
}

func TestRedisBypass_LockReportsUnavailable(t *testing.T) {
	r := newBypassedRedis()

	acquired, err := r.SetIfNotExists(context.Background(), "insight:refresh:lock", "now", time.Minute)
	if acquired {
		t.Fatalf("bypassed lock must not report acquisition")
	}
	if !errors.Is(err, usecase.ErrCacheUnavailable) {
		t.Fatalf("expected ErrCacheUnavailable, got %v", err)
	}
}
