package database

import (
	"context"
	"log/slog"
	"time"
)

// PurgeOlderThan removes nonces seen more than retention before now.
func PurgeOlderThan(ctx context.Context, store NonceStore, now time.Time, retention time.Duration) (int64, error) {
	return store.Purge(ctx, now.Add(-retention))
}

// RunPurger calls PurgeOlderThan every interval until ctx is done. Errors are
// logged and the loop keeps going.
func RunPurger(ctx context.Context, store NonceStore, interval, retention time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed, err := PurgeOlderThan(ctx, store, now, retention)
			if err != nil {
				slog.Error("purge nonces", "error", err)
				continue
			}
			if removed > 0 {
				slog.Debug("purged nonces", "removed", removed, "retention", retention)
			}
		}
	}
}
