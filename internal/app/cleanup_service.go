// internal/app/cleanup_service.go
package app

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"silver_bullet_notifier/internal/domain/notification"
	"silver_bullet_notifier/internal/domain/session"
	domainTelegram "silver_bullet_notifier/internal/domain/telegram"
)

// CleanupService drains the message ledger at most once per calendar day.
type CleanupService interface {
	// RunDailyCleanup drains the ledger if it has not been drained today
	// (reference-zone date). Idempotent across restarts within the same
	// day; the marker file is the sole source of truth.
	RunDailyCleanup(ctx context.Context) error
}

// CleanupServiceImpl implements CleanupService over a ledger, a persistent
// marker and the message transport.
type CleanupServiceImpl struct {
	ledger       notification.Ledger
	marker       notification.CleanupMarker
	client       domainTelegram.Client
	clock        session.Clock
	referenceLoc *time.Location
	logger       *logrus.Logger
}

func NewCleanupService(
	ledger notification.Ledger,
	marker notification.CleanupMarker,
	client domainTelegram.Client,
	clock session.Clock,
	referenceLoc *time.Location,
	logger *logrus.Logger,
) *CleanupServiceImpl {
	return &CleanupServiceImpl{
		ledger:       ledger,
		marker:       marker,
		client:       client,
		clock:        clock,
		referenceLoc: referenceLoc,
		logger:       logger,
	}
}

// RunDailyCleanup compares the persisted marker against today's date and,
// when they differ (or no marker exists yet), replays every recorded
// message id through the transport's delete and overwrites the marker.
// The caller treats a returned error as non-fatal: cleanup must never
// block the rest of startup.
func (s *CleanupServiceImpl) RunDailyCleanup(ctx context.Context) error {
	today := s.clock.Now().In(s.referenceLoc).Format("2006-01-02")

	lastDate, err := s.marker.LastCleanupDate()
	if err != nil && !errors.Is(err, notification.ErrMarkerNotFound) {
		return err
	}
	if lastDate == today {
		s.logger.Info("Chat history already cleaned up today.")
		return nil
	}

	s.logger.Infof("Last cleanup was on %q, today is %s. Running cleanup.", lastDate, today)
	s.logger.Info("--- Starting Daily Chat History Cleanup ---")
	if _, _, err := s.ledger.DrainAndDelete(ctx, s.client); err != nil {
		return err
	}

	if err := s.marker.MarkCleanedUp(today); err != nil {
		return err
	}
	s.logger.Infof("Updated last cleanup date to %s.", today)
	return nil
}
