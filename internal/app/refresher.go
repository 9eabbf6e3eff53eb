package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/five82/tally/internal/state"
)

const (
	defaultRefreshInterval = 2 * time.Second
	maxBackoff             = 30 * time.Second
)

// StartRefresher launches a background goroutine that refetches q at a
// fixed cadence, backing off exponentially while fetches keep failing. It
// returns immediately; the returned channel closes once ctx is done and the
// goroutine has exited.
func StartRefresher[T any](ctx context.Context, q *state.Query[T], interval time.Duration, logger *slog.Logger) <-chan struct{} {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	done := make(chan struct{})

	go func() {
		defer close(done)
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}

			failures := refresh(ctx, q, logger)
			wait := calculateBackoff(failures, interval)
			if failures > 0 {
				logger.Warn("background refresh failed",
					"query", q.Key(),
					"failures", failures,
					"retry_in", wait,
				)
			}
			timer.Reset(wait)
		}
	}()
	return done
}

// refresh fetches q once and returns its consecutive failure count.
func refresh[T any](ctx context.Context, q *state.Query[T], logger *slog.Logger) int {
	if _, err := q.Fetch(ctx); err != nil && ctx.Err() == nil {
		logger.Debug("refresh error", "query", q.Key(), "err", err)
	}
	return q.Snapshot().ConsecutiveFailures
}

// calculateBackoff doubles base for every consecutive failure, capped at
// maxBackoff. Intervals already above the cap are left alone.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 || base >= maxBackoff {
		return base
	}
	wait := base
	for range failures {
		wait *= 2
		if wait >= maxBackoff {
			return maxBackoff
		}
	}
	return wait
}
