package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Cancel removes a scheduled task. Calling it more than once is safe.
type Cancel func()

// Scheduler runs cancellable periodic tasks. Bindings and runtimes own the returned Cancel.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (Cancel, error)
	Named(name, spec string, fn func()) error
}

// CronScheduler implements Scheduler on robfig/cron
type CronScheduler struct {
	cron    *cron.Cron
	logger  *zap.Logger
	mu      sync.Mutex
	entries map[string]cron.EntryID
}

func NewCronScheduler(logger *zap.Logger) *CronScheduler {
	return &CronScheduler{
		cron:    cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		logger:  logger,
		entries: make(map[string]cron.EntryID),
	}
}

// Every schedules fn at a constant interval; cron rounds intervals below a second up to one second.
func (s *CronScheduler) Every(interval time.Duration, fn func()) (Cancel, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("invalid interval %s", interval)
	}
	id := s.cron.Schedule(cron.Every(interval), cron.FuncJob(fn))

	var once sync.Once
	return func() {
		once.Do(func() { s.cron.Remove(id) })
	}, nil
}

// Named registers a long-lived job under a unique name, replacing any previous one.
func (s *CronScheduler) Named(name, spec string, fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.entries[name]; ok {
		s.cron.Remove(prev)
	}
	id, err := s.cron.AddFunc(spec, fn)
	if err != nil {
		return fmt.Errorf("failed to add job %s to scheduler: %w", name, err)
	}
	s.entries[name] = id
	return nil
}

func (s *CronScheduler) Start() {
	s.logger.Info("Starting scheduler")
	s.cron.Start()
}

func (s *CronScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// NewScheduler provides the scheduler to fx and ties it to the app lifecycle.
func NewScheduler(lc fx.Lifecycle, logger *zap.Logger) Scheduler {
	s := NewCronScheduler(logger)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			s.Stop()
			return nil
		},
	})
	return s
}
