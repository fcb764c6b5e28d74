package cmd

import (
	"context"
	"time"

	"cinephile/internal/data/repository"

	"go.uber.org/zap"
)

// SessionJanitor purges long-expired sessions every interval until ctx ends
func SessionJanitor(ctx context.Context, sessions repository.SessionRepository, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := sessions.CleanExpiredSessions(ctx)
			if err != nil {
				log.Warn("Session cleanup failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				log.Info("Expired sessions removed", zap.Int64("count", removed))
			}
		}
	}
}
