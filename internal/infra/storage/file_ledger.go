// internal/infra/storage/file_ledger.go
package storage

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"silver_bullet_notifier/internal/domain/telegram"
)

// Pause between consecutive delete calls during a drain, to stay under the
// provider's rate limits.
const deletePause = 100 * time.Millisecond

// FileLedger implements notification.Ledger on a newline-delimited flat
// file of provider message ids. Records are appended as messages are sent
// and the file is truncated after each drain, so it survives the daily
// process restart with at most one day's worth of entries.
type FileLedger struct {
	path   string
	logger *logrus.Logger
}

func NewFileLedger(path string, logger *logrus.Logger) *FileLedger {
	return &FileLedger{path: path, logger: logger}
}

// Record appends a message id to the ledger file, creating it if needed.
func (l *FileLedger) Record(messageID string) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open ledger file %s: %w", l.path, err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, messageID); err != nil {
		return fmt.Errorf("failed to append to ledger file %s: %w", l.path, err)
	}
	// The id must survive a crash between send and cleanup.
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync ledger file %s: %w", l.path, err)
	}
	return nil
}

// List returns all recorded message ids, oldest first. A missing ledger
// file means an empty ledger, not an error.
func (l *FileLedger) List() ([]string, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open ledger file %s: %w", l.path, err)
	}
	defer f.Close()

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id != "" {
			ids = append(ids, id)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ledger file %s: %w", l.path, err)
	}
	return ids, nil
}

// DrainAndDelete deletes every recorded message via client, newest first,
// then clears the ledger. Individual deletion failures are logged as
// warnings (Telegram refuses to delete messages older than 48h) and do not
// prevent the clear: the ledger always ends empty.
func (l *FileLedger) DrainAndDelete(ctx context.Context, client telegram.Client) (deleted, failed int, err error) {
	ids, err := l.List()
	if err != nil {
		return 0, 0, err
	}
	if len(ids) == 0 {
		l.logger.Info("Ledger is empty, nothing to delete.")
		// Truncate anyway in case the file holds only whitespace.
		if clearErr := l.clear(); clearErr != nil {
			return 0, 0, clearErr
		}
		return 0, 0, nil
	}

	l.logger.Infof("Found %d messages to delete.", len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		if ctx.Err() != nil {
			break
		}
		if delErr := client.DeleteMessage(ids[i]); delErr != nil {
			l.logger.WithField("message_id", ids[i]).Warnf("Could not delete message: %v", delErr)
			failed++
		} else {
			deleted++
		}
		time.Sleep(deletePause)
	}
	l.logger.Infof("Cleanup complete. Deleted: %d, Failed: %d.", deleted, failed)

	if clearErr := l.clear(); clearErr != nil {
		return deleted, failed, clearErr
	}
	return deleted, failed, nil
}

func (l *FileLedger) clear() error {
	f, err := os.OpenFile(l.path, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to clear ledger file %s: %w", l.path, err)
	}
	return f.Close()
}
