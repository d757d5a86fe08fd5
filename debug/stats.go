package debug

import (
	"context"
	"log/slog"
	"time"
)

// StartStatsLogger logs the attributes returned by collect under msg every
// interval until ctx is done.
func StartStatsLogger(ctx context.Context, interval time.Duration, logger *slog.Logger, msg string, collect func() []slog.Attr) {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				logger.LogAttrs(ctx, slog.LevelInfo, msg, collect()...)
			}
		}
	}()
}
