package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"go.uber.org/zap"
)

// Job is a named function run on a fixed interval.
type Job struct {
	Name     string
	Interval time.Duration
	Fn       func(ctx context.Context) error
}

// Locker is satisfied by *redislock.Client.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration, opt *redislock.Options) (*redislock.Lock, error)
}

// Scheduler runs registered jobs until Stop is called. With a locker set,
// each tick is taken by at most one worker process.
type Scheduler struct {
	jobs   []Job
	locker Locker
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

func New(locker Locker, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.L()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		locker: locker,
		logger: logger.Named("scheduler"),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *Scheduler) AddJob(name string, interval time.Duration, fn func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, Job{Name: name, Interval: interval, Fn: fn})
	s.logger.Info("job registered", zap.String("job", name), zap.Duration("interval", interval))
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.loop(job)
	}
	s.logger.Info("scheduler started", zap.Int("jobs", len(s.jobs)))
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

// RunOnce executes every job a single time on the caller's goroutine.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	jobs := append([]Job(nil), s.jobs...)
	s.mu.Unlock()

	for _, job := range jobs {
		s.execute(ctx, job)
	}
}

func (s *Scheduler) loop(job Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	s.execute(s.ctx, job)
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.execute(s.ctx, job)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, job Job) {
	log := s.logger.With(zap.String("job", job.Name))

	if s.locker != nil {
		// the lock is left to expire so other workers skip the whole interval
		_, err := s.locker.Obtain(ctx, "scheduler:"+job.Name, job.Interval, nil)
		if errors.Is(err, redislock.ErrNotObtained) {
			log.Debug("job held by another worker")
			return
		}
		if err != nil {
			log.Error("obtain job lock failed", zap.Error(err))
			return
		}
	}

	start := time.Now()
	if err := job.Fn(ctx); err != nil {
		log.Error("job failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return
	}
	log.Debug("job completed", zap.Duration("duration", time.Since(start)))
}
