package logger

import (
	"context"
	"os"
	"testing"

	"lolharvest/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) *RunLogger {
	t.Helper()

	log, err := NewRunLogger()
	require.NoError(t, err)
	log.echo = false
	t.Cleanup(func() { log.Close() })

	return log
}

func readLogFile(t *testing.T, log *RunLogger) string {
	t.Helper()

	content, err := os.ReadFile(log.filePath)
	require.NoError(t, err)
	return string(content)
}

func TestRunLoggerWritesLeveledLines(t *testing.T) {
	log := newTestLogger(t)

	log.Infof("Fetched match %s.", "EUW1_123")
	log.Errorf("player %s failed: %v", "ScanVisor#EUW", "boom")
	log.EmptyLine()

	content := readLogFile(t, log)
	assert.Contains(t, content, "[INFO]")
	assert.Contains(t, content, "Fetched match EUW1_123.")
	assert.Contains(t, content, "[ERROR]")
	assert.Contains(t, content, "player ScanVisor#EUW failed: boom")
}

func TestRunLoggerCleanFile(t *testing.T) {
	log := newTestLogger(t)

	log.Infof("Something before the reset.")
	log.CleanFile()

	assert.Empty(t, readLogFile(t, log))

	// The logger keeps working on the truncated file.
	log.Infof("Something after the reset.")
	assert.Contains(t, readLogFile(t, log), "Something after the reset.")
}

func TestUploadToS3BucketNoBucketConfigured(t *testing.T) {
	log := newTestLogger(t)
	log.Infof("A line that would be shipped.")

	err := log.UploadToS3Bucket(context.Background(), config.BucketConfiguration{}, "collector/test.log")
	assert.NoError(t, err)
}

func TestRunLoggerCloseRemovesFile(t *testing.T) {
	log, err := NewRunLogger()
	require.NoError(t, err)
	log.echo = false

	path := log.filePath
	require.NoError(t, log.Close())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
