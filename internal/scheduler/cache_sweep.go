// Package scheduler runs periodic maintenance: the cache sweep and the
// audit retention cleanup.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mrlokans/novelreader/internal/logging"
	"github.com/mrlokans/novelreader/internal/tasks"
)

const DefaultSweepSchedule = "*/30 * * * *"

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Enqueuer is satisfied by *tasks.Client.
type Enqueuer interface {
	Enqueue(ctx context.Context, task backlite.Task) (string, error)
}

// AuditCleanup configures the optional audit retention job.
type AuditCleanup struct {
	Cleaner       tasks.AuditEventCleaner
	Schedule      string
	RetentionDays int
}

// CacheSweepScheduler removes expired cache entries on a cron schedule.
// With an Enqueuer each run becomes a task on the queue; without one the
// sweep runs inline on the cron goroutine.
type CacheSweepScheduler struct {
	sweeper  tasks.CacheSweeper
	enqueuer Enqueuer
	schedule string
	audit    *AuditCleanup
	logger   *zap.Logger

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

type Option func(*CacheSweepScheduler)

func WithEnqueuer(e Enqueuer) Option {
	return func(s *CacheSweepScheduler) { s.enqueuer = e }
}

func WithAuditCleanup(a AuditCleanup) Option {
	return func(s *CacheSweepScheduler) { s.audit = &a }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *CacheSweepScheduler) { s.logger = l }
}

func NewCacheSweepScheduler(sweeper tasks.CacheSweeper, schedule string, opts ...Option) *CacheSweepScheduler {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	s := &CacheSweepScheduler{
		sweeper:  sweeper,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(parser)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.Global()
	}
	s.logger = s.logger.Named("scheduler")
	return s
}

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

func (s *CacheSweepScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, s.RunNow)
	if err != nil {
		return fmt.Errorf("failed to schedule cache sweep: %w", err)
	}
	s.entryID = entryID

	if s.audit != nil && s.audit.Cleaner != nil {
		if err := ValidateSchedule(s.audit.Schedule); err != nil {
			return fmt.Errorf("invalid cron schedule '%s': %w", s.audit.Schedule, err)
		}
		if _, err := s.cron.AddFunc(s.audit.Schedule, s.runAuditCleanup); err != nil {
			return fmt.Errorf("failed to schedule audit cleanup: %w", err)
		}
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	s.logger.Info("cache sweep scheduled",
		zap.String("schedule", s.schedule),
		zap.Bool("queued", s.enqueuer != nil))

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running job and stops the schedule.
func (s *CacheSweepScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()

	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	s.logger.Info("cache sweep scheduler stopped")
}

func (s *CacheSweepScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the next sweep is due, or nil when stopped.
func (s *CacheSweepScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	entry := s.cron.Entry(s.entryID)
	if !entry.Valid() {
		return nil
	}
	t := entry.Next
	return &t
}

// RunNow sweeps once, through the queue when one is configured.
func (s *CacheSweepScheduler) RunNow() {
	if s.enqueuer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		id, err := s.enqueuer.Enqueue(ctx, tasks.CleanupCacheTask{})
		if err == nil {
			s.logger.Debug("cache sweep enqueued", zap.String("task_id", id))
			return
		}
		s.logger.Warn("failed to enqueue cache sweep, sweeping inline", zap.Error(err))
	}

	removed := s.sweeper.CleanupExpired()
	s.logger.Info("cache sweep finished", zap.Int("removed", removed))
}

func (s *CacheSweepScheduler) runAuditCleanup() {
	task := tasks.CleanupAuditEventsTask{RetentionDays: s.audit.RetentionDays}

	if s.enqueuer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := s.enqueuer.Enqueue(ctx, task); err == nil {
			return
		}
	}

	process := tasks.CleanupAuditEventsProcessor(s.audit.Cleaner, s.logger)
	if err := process(context.Background(), task); err != nil {
		s.logger.Error("audit cleanup failed", zap.Error(err))
	}
}
