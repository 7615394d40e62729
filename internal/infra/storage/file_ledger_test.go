// internal/infra/storage/file_ledger_test.go
package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingClient struct {
	deleted   []string
	deleteErr error
}

func (c *recordingClient) SendMessage(text string) (string, error) {
	return "", errors.New("not used in ledger tests")
}

func (c *recordingClient) DeleteMessage(messageID string) error {
	if c.deleteErr != nil {
		return c.deleteErr
	}
	c.deleted = append(c.deleted, messageID)
	return nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func ledgerPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "message_ids.log")
}

func TestFileLedger_ListOnMissingFile(t *testing.T) {
	ledger := NewFileLedger(ledgerPath(t), quietLogger())
	ids, err := ledger.List()
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFileLedger_RecordSurvivesRestart(t *testing.T) {
	path := ledgerPath(t)

	ledger := NewFileLedger(path, quietLogger())
	require.NoError(t, ledger.Record("101"))
	require.NoError(t, ledger.Record("102"))
	require.NoError(t, ledger.Record("103"))

	// A fresh instance over the same file simulates the daily restart.
	reopened := NewFileLedger(path, quietLogger())
	ids, err := reopened.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"101", "102", "103"}, ids)
}

func TestFileLedger_DrainDeletesNewestFirstAndClears(t *testing.T) {
	path := ledgerPath(t)
	ledger := NewFileLedger(path, quietLogger())
	for _, id := range []string{"101", "102", "103"} {
		require.NoError(t, ledger.Record(id))
	}

	client := &recordingClient{}
	deleted, failed, err := ledger.DrainAndDelete(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)
	assert.Equal(t, 0, failed)
	assert.Equal(t, []string{"103", "102", "101"}, client.deleted)

	ids, err := ledger.List()
	require.NoError(t, err)
	assert.Empty(t, ids)

	// The file itself is truncated, not removed.
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestFileLedger_DrainClearsEvenWhenEveryDeleteFails(t *testing.T) {
	ledger := NewFileLedger(ledgerPath(t), quietLogger())
	require.NoError(t, ledger.Record("101"))
	require.NoError(t, ledger.Record("102"))

	client := &recordingClient{deleteErr: errors.New("message is too old")}
	deleted, failed, err := ledger.DrainAndDelete(context.Background(), client)
	require.NoError(t, err, "per-id failures are tolerated")
	assert.Equal(t, 0, deleted)
	assert.Equal(t, 2, failed)

	ids, err := ledger.List()
	require.NoError(t, err)
	assert.Empty(t, ids, "the ledger must end empty regardless of deletion outcomes")
}

func TestFileLedger_DrainOnEmptyLedger(t *testing.T) {
	ledger := NewFileLedger(ledgerPath(t), quietLogger())

	client := &recordingClient{}
	deleted, failed, err := ledger.DrainAndDelete(context.Background(), client)
	require.NoError(t, err)
	assert.Zero(t, deleted)
	assert.Zero(t, failed)
	assert.Empty(t, client.deleted)
}

func TestFileLedger_ListSkipsBlankLines(t *testing.T) {
	path := ledgerPath(t)
	require.NoError(t, os.WriteFile(path, []byte("101\n\n  \n102\n"), 0o644))

	ledger := NewFileLedger(path, quietLogger())
	ids, err := ledger.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"101", "102"}, ids)
}
