package scheduler

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serialGuard detects service calls overlapping in time. The scheduler
// contract is that every service entry point runs on the loop goroutine,
// one at a time; any overlap is a violation.
type serialGuard struct {
	busy       atomic.Int32
	violations atomic.Int32
}

func (g *serialGuard) enter() {
	if g == nil {
		return
	}
	if !g.busy.CompareAndSwap(0, 1) {
		g.violations.Add(1)
	}
}

func (g *serialGuard) exit() {
	if g == nil {
		return
	}
	g.busy.Store(0)
}

type stubNotifier struct {
	mu         sync.Mutex
	guard      *serialGuard
	checkDelay time.Duration
	checks     int
	checkErr   error
	startups   int
	shutdowns  int
	errors     int
	resets     int
}

func (s *stubNotifier) CheckAndNotify(ctx context.Context) error {
	s.guard.enter()
	defer s.guard.exit()
	time.Sleep(s.checkDelay)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks++
	return s.checkErr
}

func (s *stubNotifier) SendStartupSummary(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startups++
	return nil
}

func (s *stubNotifier) SendShutdownNotice(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shutdowns++
}

func (s *stubNotifier) SendErrorNotice(ctx context.Context, cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors++
}

func (s *stubNotifier) ResetFiredState() {
	s.guard.enter()
	defer s.guard.exit()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resets++
}

type stubCleanup struct {
	mu    sync.Mutex
	guard *serialGuard
	runs  int
	err   error
}

func (s *stubCleanup) RunDailyCleanup(ctx context.Context) error {
	s.guard.enter()
	defer s.guard.exit()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs++
	return s.err
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRun_ScheduledShutdownSendsNotice(t *testing.T) {
	notifier := &stubNotifier{}
	cleanup := &stubCleanup{}
	s := NewPollScheduler(notifier, cleanup, time.UTC, 10*time.Millisecond, 80*time.Millisecond, quietLogger())

	err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, notifier.startups)
	assert.Equal(t, 1, notifier.shutdowns)
	assert.Equal(t, 1, cleanup.runs)
	assert.GreaterOrEqual(t, notifier.checks, 2, "the immediate check plus at least one tick")
}

func TestRun_InterruptExitsWithoutNotice(t *testing.T) {
	notifier := &stubNotifier{}
	s := NewPollScheduler(notifier, &stubCleanup{}, time.UTC, 10*time.Millisecond, time.Hour, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	err := s.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, notifier.shutdowns, "an interrupt exits without the shutdown notice")
}

func TestRun_AbortsOnCheckError(t *testing.T) {
	notifier := &stubNotifier{checkErr: errors.New("zone database vanished")}
	s := NewPollScheduler(notifier, &stubCleanup{}, time.UTC, 10*time.Millisecond, time.Hour, quietLogger())

	err := s.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "polling loop aborted")
	assert.Equal(t, 1, notifier.errors, "a best-effort error notice goes out before exiting")
	assert.Zero(t, notifier.shutdowns)
}

func TestRun_MidnightSignalRunsHousekeepingInsideTheLoop(t *testing.T) {
	guard := &serialGuard{}
	notifier := &stubNotifier{guard: guard, checkDelay: 2 * time.Millisecond}
	cleanup := &stubCleanup{guard: guard}
	s := NewPollScheduler(notifier, cleanup, time.UTC, 10*time.Millisecond, 120*time.Millisecond, quietLogger())

	// Stand-in for the midnight cron firing mid-run.
	go func() {
		time.Sleep(40 * time.Millisecond)
		s.signalMidnight()
	}()

	err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, notifier.resets, "date rollover clears the fired set")
	assert.Equal(t, 2, cleanup.runs, "startup cleanup plus the midnight re-run")
	assert.Zero(t, guard.violations.Load(),
		"housekeeping must be serialized with the firing checks on the loop goroutine")
}

func TestSignalMidnight_NeverBlocks(t *testing.T) {
	s := NewPollScheduler(&stubNotifier{}, &stubCleanup{}, time.UTC, time.Minute, time.Hour, quietLogger())

	// Nobody is draining the channel; repeated signals must still return.
	for i := 0; i < 3; i++ {
		s.signalMidnight()
	}
}

func TestRun_CleanupFailureDoesNotBlockStartup(t *testing.T) {
	notifier := &stubNotifier{}
	cleanup := &stubCleanup{err: errors.New("marker unreadable")}
	s := NewPollScheduler(notifier, cleanup, time.UTC, 10*time.Millisecond, 40*time.Millisecond, quietLogger())

	err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, notifier.startups, "startup summary still goes out after a failed cleanup")
	assert.GreaterOrEqual(t, notifier.checks, 1)
}
