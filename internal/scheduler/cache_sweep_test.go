package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mrlokans/novelreader/internal/tasks"
)

type countingSweeper struct {
	mu    sync.Mutex
	calls int
}

func (c *countingSweeper) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return 1
}

func (c *countingSweeper) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type fakeEnqueuer struct {
	tasks []backlite.Task
	err   error
}

func (f *fakeEnqueuer) Enqueue(ctx context.Context, task backlite.Task) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.tasks = append(f.tasks, task)
	return "task-1", nil
}

type fakeCleaner struct {
	retention time.Duration
}

func (f *fakeCleaner) DeleteOldEvents(retention time.Duration) (int64, error) {
	f.retention = retention
	return 0, nil
}

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule("*/30 * * * *"))
	assert.NoError(t, ValidateSchedule("0 3 * * *"))
	assert.Error(t, ValidateSchedule("* * * * * *"))
	assert.Error(t, ValidateSchedule("every day"))
}

func TestRunNow_Inline(t *testing.T) {
	sweeper := &countingSweeper{}
	s := NewCacheSweepScheduler(sweeper, "", WithLogger(zap.NewNop()))

	s.RunNow()
	assert.Equal(t, 1, sweeper.Calls())
}

func TestRunNow_Enqueues(t *testing.T) {
	sweeper := &countingSweeper{}
	enq := &fakeEnqueuer{}
	s := NewCacheSweepScheduler(sweeper, "", WithEnqueuer(enq), WithLogger(zap.NewNop()))

	s.RunNow()
	require.Len(t, enq.tasks, 1)
	assert.IsType(t, tasks.CleanupCacheTask{}, enq.tasks[0])
	assert.Zero(t, sweeper.Calls())
}

func TestRunNow_FallsBackWhenQueueFails(t *testing.T) {
	sweeper := &countingSweeper{}
	enq := &fakeEnqueuer{err: errors.New("database is locked")}
	s := NewCacheSweepScheduler(sweeper, "", WithEnqueuer(enq), WithLogger(zap.NewNop()))

	s.RunNow()
	assert.Equal(t, 1, sweeper.Calls())
}

func TestStartStop(t *testing.T) {
	s := NewCacheSweepScheduler(&countingSweeper{}, "*/5 * * * *", WithLogger(zap.NewNop()))

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	next := s.NextRun()
	require.NotNil(t, next)
	assert.True(t, next.After(time.Now()))

	require.NoError(t, s.Start(context.Background()))

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.NextRun())
}

func TestStart_InvalidSchedule(t *testing.T) {
	s := NewCacheSweepScheduler(&countingSweeper{}, "not a schedule", WithLogger(zap.NewNop()))
	assert.Error(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
}

func TestStart_InvalidAuditSchedule(t *testing.T) {
	s := NewCacheSweepScheduler(&countingSweeper{}, "", WithLogger(zap.NewNop()),
		WithAuditCleanup(AuditCleanup{Cleaner: &fakeCleaner{}, Schedule: "nope"}))
	assert.Error(t, s.Start(context.Background()))
}

func TestContextCancelStops(t *testing.T) {
	s := NewCacheSweepScheduler(&countingSweeper{}, "", WithLogger(zap.NewNop()))
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, s.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool { return !s.IsRunning() }, time.Second, 5*time.Millisecond)
}

func TestAuditCleanup_Inline(t *testing.T) {
	cleaner := &fakeCleaner{}
	s := NewCacheSweepScheduler(&countingSweeper{}, "", WithLogger(zap.NewNop()),
		WithAuditCleanup(AuditCleanup{Cleaner: cleaner, Schedule: "0 3 * * *", RetentionDays: 10}))

	s.runAuditCleanup()
	assert.Equal(t, 10*24*time.Hour, cleaner.retention)
}
