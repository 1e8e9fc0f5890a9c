package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/five82/framegrid/internal/authority"
	"github.com/five82/framegrid/internal/state"
)

const (
	defaultPollInterval = 250 * time.Millisecond
	maxBackoff          = 30 * time.Second
)

// StartPoller launches a background goroutine that pulls mirror updates into
// the store. Consecutive failures back off exponentially up to maxBackoff. It
// returns immediately.
func StartPoller(ctx context.Context, store *state.Store, client authority.Fetcher, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	go func() {
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			refresh(ctx, store, client, logger)
			timer.Reset(calculateBackoff(store.Snapshot().ConsecutiveFailures, interval))
		}
	}()
}

// calculateBackoff doubles the base interval per failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}

func refresh(ctx context.Context, store *state.Store, client authority.Fetcher, logger *slog.Logger) {
	before := store.Snapshot()
	update, err := client.FetchUpdate(ctx, before.Version)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		store.Update(nil, err)
		// Log the first failure and every tenth after it.
		if failures := before.ConsecutiveFailures + 1; failures == 1 || failures%10 == 0 {
			logger.Warn("grid poll failed", "error", err, "failures", failures)
		}
		return
	}
	if before.ConsecutiveFailures > 0 {
		logger.Info("authority reachable again", "after_failures", before.ConsecutiveFailures)
	}
	store.Update(&update, nil)
}
