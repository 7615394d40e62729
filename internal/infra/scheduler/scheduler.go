package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"silver_bullet_notifier/internal/app"
)

// PollScheduler owns the process lifecycle: the once-per-minute firing
// check, the reference-zone midnight housekeeping job, and the scheduled
// shutdown that hands control back to the external daily-restart
// supervisor.
type PollScheduler struct {
	notifService   app.NotificationService
	cleanupService app.CleanupService
	cronEngine     *cron.Cron
	midnight       chan struct{}
	pollInterval   time.Duration
	runDuration    time.Duration
	logger         *logrus.Logger
}

func NewPollScheduler(
	notifService app.NotificationService,
	cleanupService app.CleanupService,
	referenceLoc *time.Location,
	pollInterval time.Duration, // e.g. 60s; also the firing-window width
	runDuration time.Duration, // e.g. 23h30m, leaving room for the supervisor restart
	logger *logrus.Logger,
) *PollScheduler {
	return &PollScheduler{
		notifService:   notifService,
		cleanupService: cleanupService,
		cronEngine:     cron.New(cron.WithLocation(referenceLoc)),
		midnight:       make(chan struct{}, 1),
		pollInterval:   pollInterval,
		runDuration:    runDuration,
		logger:         logger,
	}
}

// Run blocks until the scheduled run duration elapses (shutdown notice is
// sent, nil returned), ctx is cancelled by an interrupt (no notice, nil
// returned), or the firing check fails unexpectedly (best-effort error
// notice, error returned). Single-threaded: one tick's work finishes
// before the next is evaluated.
func (s *PollScheduler) Run(ctx context.Context) error {
	// Startup cleanup: must never block the rest of startup.
	if err := s.cleanupService.RunDailyCleanup(ctx); err != nil {
		s.logger.Errorf("Error during daily cleanup check: %v", err)
	}

	if err := s.notifService.SendStartupSummary(ctx); err != nil {
		s.logger.Errorf("Error sending startup summary: %v", err)
	}

	// Midnight housekeeping in the reference zone: clear the fired set
	// and re-run the cleanup gate in case the supervisor misses a restart.
	// The cron job only signals; the work itself is drained by the select
	// below, so the fired set and the ledger files are only ever touched
	// by the loop goroutine.
	_, err := s.cronEngine.AddFunc("0 0 * * *", s.signalMidnight)
	if err != nil {
		return fmt.Errorf("could not add midnight cron job: %w", err)
	}
	s.cronEngine.Start()
	defer func() {
		<-s.cronEngine.Stop().Done() // wait for a running job to finish
	}()

	deadline := time.NewTimer(s.runDuration)
	defer deadline.Stop()
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	s.logger.Infof("Polling loop started. Poll interval: %s, scheduled shutdown in %s.", s.pollInterval, s.runDuration)

	// First check runs immediately; the ticker covers the rest.
	if err := s.notifService.CheckAndNotify(ctx); err != nil {
		return s.abort(ctx, err)
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Interrupt received. Exiting without shutdown notice.")
			return nil
		case <-deadline.C:
			s.logger.Info("Scheduled shutdown reached - exiting normally.")
			s.notifService.SendShutdownNotice(ctx)
			return nil
		case <-ticker.C:
			if err := s.notifService.CheckAndNotify(ctx); err != nil {
				return s.abort(ctx, err)
			}
		case <-s.midnight:
			s.logger.Info("Reference-zone midnight: resetting daily state.")
			s.notifService.ResetFiredState()
			if err := s.cleanupService.RunDailyCleanup(ctx); err != nil {
				s.logger.Errorf("Error during midnight cleanup: %v", err)
			}
		}
	}
}

// signalMidnight nudges the polling loop to run its midnight housekeeping.
// Non-blocking: if the previous signal has not been drained yet, the loop
// will get to it with the one already queued.
func (s *PollScheduler) signalMidnight() {
	select {
	case s.midnight <- struct{}{}:
	default:
	}
}

// abort sends the best-effort error notice and wraps the loop error.
// Exiting beats looping forever in a broken state.
func (s *PollScheduler) abort(ctx context.Context, cause error) error {
	s.logger.Errorf("Error in main loop: %v", cause)
	s.notifService.SendErrorNotice(ctx, cause)
	return fmt.Errorf("polling loop aborted: %w", cause)
}
