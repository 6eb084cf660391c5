// Package scheduler drives the recurring full-catalog insight refresh.
// The trigger itself (cron tick or one-shot invocation) lives in
// cmd/refresher; this package owns lock acquisition, outcome logging,
// and the observability broadcast.
package scheduler

import (
	"context"
	"log"
	"time"

	"careerpilot/internal/usecase"
	"careerpilot/internal/ws"
)

const refreshLockKey = "insight:refresh:lock"

type Refresher struct {
	insights usecase.InsightUsecase
	cache    usecase.ContentCache
	logger   *log.Logger
	lockTTL  time.Duration
}

func NewRefresher(insights usecase.InsightUsecase, cache usecase.ContentCache, logger *log.Logger, lockTTL time.Duration) *Refresher {
	if lockTTL <= 0 {
		lockTTL = time.Hour
	}
	return &Refresher{
		insights: insights,
		cache:    cache,
		logger:   logger,
		lockTTL:  lockTTL,
	}
}

// Run executes one refresh activation. Duplicate activations are safe: a
// run lock in the cache makes overlapping triggers no-ops, and a repeat
// trigger after completion simply refreshes early.
func (r *Refresher) Run(ctx context.Context) ([]usecase.RefreshOutcome, error) {
	if r.cache != nil {
		acquired, err := r.cache.SetIfNotExists(ctx, refreshLockKey, time.Now().UTC().Format(time.RFC3339), r.lockTTL)
		switch {
		case err == nil && !acquired:
			if r.logger != nil {
				r.logger.Printf("insight refresh skipped | reason=already_running")
			}
			return nil, nil
		case err != nil:
			// No reachable lock means no concurrent holder to defer to;
			// the refresh itself must still happen. Only a lock this run
			// acquired gets released afterwards.
			if r.logger != nil {
				r.logger.Printf("insight refresh lock unavailable, proceeding unlocked | error=%v", err)
			}
		}
		if acquired {
			defer func() {
				_ = r.cache.Delete(context.Background(), refreshLockKey)
			}()
		}
	}

	started := time.Now()
	outcomes, err := r.insights.RefreshAll(ctx)
	if err != nil {
		if r.logger != nil {
			r.logger.Printf("insight refresh failed | error=%v", err)
		}
		return nil, err
	}

	succeeded := 0
	for _, o := range outcomes {
		if o.Err == nil {
			succeeded++
			continue
		}
		if r.logger != nil {
			r.logger.Printf("insight refresh item failed | industry=%s error=%v", o.Industry, o.Err)
		}
	}
	if r.logger != nil {
		r.logger.Printf("insight refresh completed | total=%d succeeded=%d failed=%d duration=%s",
			len(outcomes), succeeded, len(outcomes)-succeeded, time.Since(started))
	}

	ws.NotifyRefreshCompleted(outcomes)
	return outcomes, nil
}
