package scheduler_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go-payroll/internal/scheduler"

	"github.com/bsm/redislock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLocker struct {
	mu   sync.Mutex
	held map[string]bool
	keys []string
}

func (l *fakeLocker) Obtain(_ context.Context, key string, _ time.Duration, _ *redislock.Options) (*redislock.Lock, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.keys = append(l.keys, key)
	if l.held[key] {
		return nil, redislock.ErrNotObtained
	}
	return nil, nil
}

type fakeRefresher struct {
	calls []time.Time
	err   error
}

func (f *fakeRefresher) RefreshInstallmentStatuses(_ context.Context, today time.Time) (int64, int64, error) {
	f.calls = append(f.calls, today)
	return 2, 1, f.err
}

func TestRunOnce(t *testing.T) {
	locker := &fakeLocker{held: map[string]bool{"scheduler:busy": true}}
	s := scheduler.New(locker, zap.NewNop())

	var ran []string
	s.AddJob("first", time.Minute, func(context.Context) error {
		ran = append(ran, "first")
		return nil
	})
	s.AddJob("busy", time.Minute, func(context.Context) error {
		ran = append(ran, "busy")
		return nil
	})
	s.AddJob("failing", time.Minute, func(context.Context) error {
		ran = append(ran, "failing")
		return errors.New("boom")
	})

	s.RunOnce(context.Background())

	assert.Equal(t, []string{"first", "failing"}, ran)
	assert.Equal(t, []string{"scheduler:first", "scheduler:busy", "scheduler:failing"}, locker.keys)
}

func TestStartStop(t *testing.T) {
	s := scheduler.New(nil, zap.NewNop())

	ran := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}

func TestRefreshInstallmentsJob(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	refresher := &fakeRefresher{}

	job := scheduler.RefreshInstallmentsJob(refresher, func() time.Time { return now }, zap.NewNop())
	require.NoError(t, job(context.Background()))
	assert.Equal(t, []time.Time{now}, refresher.calls)

	refresher.err = errors.New("db down")
	assert.EqualError(t, job(context.Background()), "db down")
}

type fakePurger struct {
	before time.Time
}

func (f *fakePurger) PurgeSent(_ context.Context, before time.Time) (int64, error) {
	f.before = before
	return 3, nil
}

func TestPurgeOutboxJob(t *testing.T) {
	now := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	purger := &fakePurger{}

	job := scheduler.PurgeOutboxJob(purger, 7*24*time.Hour, func() time.Time { return now }, zap.NewNop())

	require.NoError(t, job(context.Background()))
	assert.Equal(t, time.Date(2026, 10, 8, 0, 0, 0, 0, time.UTC), purger.before)
}
