package auth

import (
	"context"
	"time"

	"ecommerce-backend/internal/logger"

	"go.uber.org/zap"
)

// StartOTPCleanupJob deletes codes that expired more than retention ago, every interval, until ctx is done.
func (s *Service) StartOTPCleanupJob(ctx context.Context, interval, retention time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("OTP cleanup job started",
		zap.Duration("interval", interval),
		zap.Duration("retention", retention),
	)

	s.cleanupExpiredOTPs(ctx, retention)

	for {
		select {
		case <-ctx.Done():
			logger.Info("OTP cleanup job stopped")
			return
		case <-ticker.C:
			s.cleanupExpiredOTPs(ctx, retention)
		}
	}
}

func (s *Service) cleanupExpiredOTPs(ctx context.Context, retention time.Duration) {
	before := s.now().Add(-retention)
	deleted, err := s.otpRepo.DeleteExpired(ctx, before)
	if err != nil {
		logger.Error("Failed to delete expired OTPs", zap.Error(err))
		return
	}

	logger.Debug("Expired OTPs cleaned up",
		zap.Int64("deleted", deleted),
		zap.Time("expired_before", before),
	)
}
