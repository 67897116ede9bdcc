package payrollrun

import (
	"context"
	"errors"
	"fmt"
	"time"

	payrollrunerrors "go-payroll/internal/payrollrun/errors"

	"github.com/bsm/redislock"
	"go.uber.org/zap"
)

//go:generate mockgen -source=payrollrun_lock.go -destination=mock/payrollrun_lock_mock.go -package=mock
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (Lease, error)
}

// Lease is a held lock. *redislock.Lock satisfies it.
type Lease interface {
	Refresh(ctx context.Context, ttl time.Duration, opt *redislock.Options) error
	Release(ctx context.Context) error
}

type redisLocker struct {
	client *redislock.Client
}

func NewRedisLocker(client *redislock.Client) Locker {
	return &redisLocker{client: client}
}

func (l *redisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (Lease, error) {
	lock, err := l.client.Obtain(ctx, key, ttl, nil)
	if err != nil {
		return nil, err
	}
	return lock, nil
}

// periodLock guards one payroll period while a run processes it. The lease is
// extended after every employee so batches longer than the TTL keep it.
type periodLock struct {
	key    string
	ttl    time.Duration
	lease  Lease
	logger *zap.Logger
}

func (s *service) lockPeriod(ctx context.Context, companyID, periodID string) (*periodLock, error) {
	key := fmt.Sprintf("payroll-run:%s:%s", companyID, periodID)
	pl := &periodLock{key: key, ttl: s.lockTTL, logger: s.logger}
	if s.locker == nil {
		return pl, nil
	}

	lease, err := s.locker.Obtain(ctx, key, s.lockTTL)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, payrollrunerrors.ErrRunInProgress
	}
	if err != nil {
		return nil, fmt.Errorf("obtain run lock: %w", err)
	}
	pl.lease = lease
	return pl, nil
}

func (l *periodLock) extend(ctx context.Context) error {
	if l.lease == nil {
		return nil
	}
	if err := l.lease.Refresh(ctx, l.ttl, nil); err != nil {
		return fmt.Errorf("refresh run lock: %w", err)
	}
	return nil
}

func (l *periodLock) release(ctx context.Context) {
	if l.lease == nil {
		return
	}
	if err := l.lease.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
		l.logger.Warn("release run lock failed", zap.String("key", l.key), zap.Error(err))
	}
}
