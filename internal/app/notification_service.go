// internal/app/notification_service.go
package app

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"silver_bullet_notifier/internal/domain/notification"
	"silver_bullet_notifier/internal/domain/session"
	domainTelegram "silver_bullet_notifier/internal/domain/telegram"
)

// NotificationService defines the operations the polling loop drives.
type NotificationService interface {
	// CheckAndNotify evaluates every upcoming session against every
	// configured lead time and sends the notifications whose firing
	// window contains the current instant. Runs once per polling tick.
	CheckAndNotify(ctx context.Context) error

	// SendStartupSummary announces the next upcoming sessions. Sent once
	// after startup cleanup.
	SendStartupSummary(ctx context.Context) error

	// SendShutdownNotice announces the scheduled daily restart.
	SendShutdownNotice(ctx context.Context)

	// SendErrorNotice is a best-effort alert sent before the process
	// exits on an unexpected loop error.
	SendErrorNotice(ctx context.Context, cause error)

	// ResetFiredState clears the fired-notification set. Invoked at the
	// reference-zone midnight.
	ResetFiredState()
}

// NotificationServiceImpl implements NotificationService. It is not safe
// for concurrent use; the polling loop is single-threaded by design.
type NotificationServiceImpl struct {
	calendar     *session.Calendar
	clock        session.Clock
	client       domainTelegram.Client
	ledger       notification.Ledger
	leadTimes    []int
	pollInterval time.Duration
	fired        *notification.FiredSet
	firedDate    string // reference-zone date the fired set belongs to
	logger       *logrus.Logger
}

func NewNotificationService(
	calendar *session.Calendar,
	clock session.Clock,
	client domainTelegram.Client,
	ledger notification.Ledger,
	leadTimes []int,
	pollInterval time.Duration,
	logger *logrus.Logger,
) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		calendar:     calendar,
		clock:        clock,
		client:       client,
		ledger:       ledger,
		leadTimes:    leadTimes,
		pollInterval: pollInterval,
		fired:        notification.NewFiredSet(),
		logger:       logger,
	}
}

// CheckAndNotify fires each (occurrence, lead time) pair whose scheduled
// instant falls inside the current tick's forward-looking window. The
// window check alone would double-fire under polling jitter, so every fire
// is also guarded by the per-day FiredSet.
func (s *NotificationServiceImpl) CheckAndNotify(ctx context.Context) error {
	now := s.clock.Now()
	nowRef := now.In(s.calendar.ReferenceLocation())
	nowDisp := now.In(s.calendar.DisplayLocation())
	s.rotateFiredState(nowRef)

	for _, occ := range s.calendar.NextSessions(nowRef, nowDisp) {
		for _, lead := range s.leadTimes {
			notifyAt := occ.StartDisplay.Add(-time.Duration(lead) * time.Minute)
			delta := notifyAt.Sub(nowDisp)
			if delta < 0 || delta > s.pollInterval {
				continue
			}

			key := notification.FiringKey{
				Date:        occ.Date(),
				SessionName: occ.Name,
				LeadMinutes: lead,
			}
			if s.fired.Contains(key) {
				continue
			}
			// Marked before the send outcome is known: delivery is
			// best-effort and a failed send is never retried.
			s.fired.Mark(key)

			var text string
			if lead == 0 {
				text = sessionStartMessage(occ)
			} else {
				text = preSessionMessage(occ, lead)
			}
			if s.send(text) {
				s.logger.WithFields(logrus.Fields{
					"session":      occ.Name,
					"lead_minutes": lead,
				}).Info("Sent session notification.")
			}
		}
	}
	return nil
}

// SendStartupSummary sends one message listing the next upcoming sessions
// (at most three) with their display-zone times.
func (s *NotificationServiceImpl) SendStartupSummary(ctx context.Context) error {
	now := s.clock.Now()
	nowRef := now.In(s.calendar.ReferenceLocation())
	nowDisp := now.In(s.calendar.DisplayLocation())

	upcoming := s.calendar.NextSessions(nowRef, nowDisp)
	if len(upcoming) > 3 {
		upcoming = upcoming[:3]
	}
	if !s.send(startupMessage(upcoming)) {
		s.logger.Error("Could not send startup summary.")
	}
	return nil
}

func (s *NotificationServiceImpl) SendShutdownNotice(ctx context.Context) {
	s.send(shutdownMessage())
}

func (s *NotificationServiceImpl) SendErrorNotice(ctx context.Context, cause error) {
	s.send(errorMessage(cause))
}

func (s *NotificationServiceImpl) ResetFiredState() {
	s.fired.Clear()
	s.firedDate = ""
	s.logger.Info("Fired-notification state cleared.")
}

// rotateFiredState clears the fired set when the reference-zone date has
// rolled over since the last tick. Backstop for the midnight cron job.
func (s *NotificationServiceImpl) rotateFiredState(nowRef time.Time) {
	today := nowRef.Format("2006-01-02")
	if s.firedDate != today {
		if s.firedDate != "" {
			s.fired.Clear()
		}
		s.firedDate = today
	}
}

// send delivers text and records the provider message id in the ledger.
// Transport and persistence failures are logged and survived: a lost
// notification is acceptable, a crashed loop is not.
func (s *NotificationServiceImpl) send(text string) bool {
	messageID, err := s.client.SendMessage(text)
	if err != nil {
		s.logger.Errorf("Failed to send message: %v", err)
		return false
	}
	if err := s.ledger.Record(messageID); err != nil {
		// The message is out but won't be cleaned up tomorrow.
		s.logger.Errorf("Could not store message ID %s: %v", messageID, err)
	}
	return true
}
