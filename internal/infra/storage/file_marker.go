// internal/infra/storage/file_marker.go
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"silver_bullet_notifier/internal/domain/notification"
)

// FileCleanupMarker implements notification.CleanupMarker on a single-line
// flat file holding the ISO date of the last successful cleanup.
type FileCleanupMarker struct {
	path string
}

func NewFileCleanupMarker(path string) *FileCleanupMarker {
	return &FileCleanupMarker{path: path}
}

// LastCleanupDate returns the persisted date, or ErrMarkerNotFound when the
// marker file does not exist or is empty.
func (m *FileCleanupMarker) LastCleanupDate() (string, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", notification.ErrMarkerNotFound
		}
		return "", fmt.Errorf("failed to read cleanup marker %s: %w", m.path, err)
	}
	date := strings.TrimSpace(string(data))
	if date == "" {
		return "", notification.ErrMarkerNotFound
	}
	return date, nil
}

// MarkCleanedUp overwrites the marker with date. The write goes to a temp
// file first and is renamed into place, so a crash mid-write cannot leave a
// half-written marker.
func (m *FileCleanupMarker) MarkCleanedUp(date string) error {
	dir := filepath.Dir(m.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(m.path)+".tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp marker file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := fmt.Fprintln(tmp, date); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp marker file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp marker file: %w", err)
	}
	if err := os.Rename(tmpPath, m.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace cleanup marker %s: %w", m.path, err)
	}
	return nil
}
