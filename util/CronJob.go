package util

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StartPeriodicCleanup calls sweep every interval until ctx is cancelled.
// sweep returns how many records it removed.
func StartPeriodicCleanup(ctx context.Context, interval time.Duration, name string, sweep func() int, logger *zap.Logger) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		logger.Info("cleanup scheduled", zap.String("job", name), zap.Duration("interval", interval))

		for {
			select {
			case <-ctx.Done():
				logger.Info("cleanup stopped", zap.String("job", name))
				return
			case <-ticker.C:
				if removed := sweep(); removed > 0 {
					logger.Info("cleanup completed", zap.String("job", name), zap.Int("removed", removed))
				}
			}
		}
	}()
}
