package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// InstallmentRefresher is implemented by loan.Service.
type InstallmentRefresher interface {
	RefreshInstallmentStatuses(ctx context.Context, today time.Time) (int64, int64, error)
}

// RefreshInstallmentsJob returns a job body that ages loan installments
// against the current date.
func RefreshInstallmentsJob(loans InstallmentRefresher, now func() time.Time, logger *zap.Logger) func(ctx context.Context) error {
	if now == nil {
		now = time.Now
	}
	return func(ctx context.Context) error {
		due, overdue, err := loans.RefreshInstallmentStatuses(ctx, now())
		if err != nil {
			return err
		}
		logger.Debug("installments refreshed", zap.Int64("due", due), zap.Int64("overdue", overdue))
		return nil
	}
}

// OutboxPurger is implemented by kafka.OutboxRepository.
type OutboxPurger interface {
	PurgeSent(ctx context.Context, before time.Time) (int64, error)
}

// PurgeOutboxJob deletes delivered outbox events older than retention.
func PurgeOutboxJob(outbox OutboxPurger, retention time.Duration, now func() time.Time, logger *zap.Logger) func(ctx context.Context) error {
	if now == nil {
		now = time.Now
	}
	return func(ctx context.Context) error {
		n, err := outbox.PurgeSent(ctx, now().Add(-retention))
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Info("outbox purged", zap.Int64("deleted", n))
		}
		return nil
	}
}
