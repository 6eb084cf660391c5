package usecase

import (
	"context"
	"errors"
	"time"
)

// ErrCacheUnavailable is returned by lock-style cache operations when the
// cache backend cannot be reached. Read/write operations stay silent no-ops
// in that state; locking must not, because callers decide differently when
// no lock can exist at all.
var ErrCacheUnavailable = errors.New("content cache unavailable")

// TextGenerator is the generative-service boundary the usecases depend
// on. One call, one prompt, raw text back; failures are typed by the
// implementation (llm.GenerationError).
type TextGenerator interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// ContentCache is the read-through cache in front of the insight store.
// Implementations degrade to no-ops when the cache is unavailable, except
// SetIfNotExists, which reports ErrCacheUnavailable instead of pretending
// someone else holds the lock.
type ContentCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
}
