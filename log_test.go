package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/decred/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kc2g-flex-tools/audioswitch/errutil"
)

func TestLogBackendLevels(t *testing.T) {
	var buf bytes.Buffer
	b, err := newLogBackend("", "warn,swch=debug", &buf)
	require.NoError(t, err)

	assert.Equal(t, slog.LevelWarn, b.logger("MAIN").Level())
	assert.Equal(t, slog.LevelDebug, b.logger("SWCH").Level())
	assert.True(t, b.logger("SWCH") == b.logger("SWCH"))

	b.logger("MAIN").Infof("hidden")
	b.logger("SWCH").Debugf("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "SWCH: shown")
	require.NoError(t, b.close())
}

func TestLogBackendBadLevel(t *testing.T) {
	_, err := newLogBackend("", "loud", nil)
	assert.Error(t, err)
	_, err = newLogBackend("", "main=loud", nil)
	assert.Error(t, err)
	_, err = newLogBackend("", "a=b=c", nil)
	assert.Error(t, err)
}

func TestLogBackendFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "audioswitch.log")
	b, err := newLogBackend(logFile, "info", nil)
	require.NoError(t, err)
	b.logger("MAIN").Infof("to file")
	require.NoError(t, b.close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "MAIN: to file")
}

func TestCriticalErrorReachesLogFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "audioswitch.log")
	b, err := newLogBackend(logFile, "info", nil)
	require.NoError(t, err)

	errutil.CriticalError(b.logger("MAIN"), "open audio service", errors.New("no service"))
	require.NoError(t, b.close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[CRT] MAIN: [open audio service]: no service")
}
