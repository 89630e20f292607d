package storage

import (
	"context"
	"log/slog"
	"time"
)

// expirySlack covers the second-level truncation between a session's
// created_at and its token's expiry.
const expirySlack = time.Minute

// SweepExpired deletes sessions whose tokens have expired. Tokens are issued
// when a session is created and never renewed, so a session created more than
// ttl ago can no longer be reached by anyone.
func SweepExpired(ctx context.Context, store Store, ttl time.Duration, now time.Time) (int64, error) {
	cutoff := now.Add(-ttl - expirySlack).Unix()
	return store.DeleteSessionsCreatedBefore(ctx, cutoff)
}

// RunJanitor sweeps expired sessions every interval until ctx is done.
func RunJanitor(ctx context.Context, store Store, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			n, err := SweepExpired(ctx, store, ttl, t)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				slog.Error("Session sweep failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("Expired sessions removed", "count", n)
			}
		}
	}
}
