// internal/domain/notification/repository.go
package notification

import (
	"context"
	"errors"

	"silver_bullet_notifier/internal/domain/telegram"
)

// ErrMarkerNotFound is returned when no cleanup marker has been persisted yet
// (first run, or the marker file was removed).
var ErrMarkerNotFound = errors.New("cleanup marker not found")

// Ledger is the durable record of provider message ids for every
// notification sent today. It must survive process restarts: a freshly
// started process resumes the ledger a previous run populated.
type Ledger interface {
	// Record appends a provider message id. The write is durable before
	// Record returns.
	Record(messageID string) error

	// List returns all currently recorded ids, oldest first.
	List() ([]string, error)

	// DrainAndDelete deletes every recorded message via client, newest
	// first, then clears the ledger regardless of how many deletions
	// succeeded, so the ledger never grows unbounded. Per-id failures
	// (e.g. messages past the provider's deletion retention window) are
	// tolerated and reflected in the failed count.
	DrainAndDelete(ctx context.Context, client telegram.Client) (deleted, failed int, err error)
}

// CleanupMarker persists the date of the last ledger drain. It is the sole
// source of truth for "has cleanup run today".
type CleanupMarker interface {
	// LastCleanupDate returns the persisted ISO date, or ErrMarkerNotFound
	// when none has been written yet.
	LastCleanupDate() (string, error)

	// MarkCleanedUp overwrites the marker with date. The write is atomic:
	// a crash mid-write must not leave a corrupt marker.
	MarkCleanedUp(date string) error
}
