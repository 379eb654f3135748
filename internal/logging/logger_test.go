package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesStructuredLinesToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	logger, err := New(dir, Options{})
	require.NoError(t, err)
	logger.Info("artifact read", "task", "afb1d4c", "fragments", 3)
	logger.Debug("hidden at info level")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "artifact read")
	assert.Contains(t, text, "task=afb1d4c")
	assert.Contains(t, text, "fragments=3")
	assert.NotContains(t, text, "hidden at info level")
}

func TestVerboseTeesDebugToStderr(t *testing.T) {
	var stderr bytes.Buffer
	logger, err := New(t.TempDir(), Options{Verbose: true, Stderr: &stderr})
	require.NoError(t, err)
	defer logger.Close()
	logger.Debug("rules applied", "rule", "bare-prefix")
	assert.Contains(t, stderr.String(), "rules applied")
}

func TestDiscardIsSafe(t *testing.T) {
	logger := Discard()
	logger.Info("nothing")
	assert.NoError(t, logger.Close())
	var nilLogger *Logger
	assert.NoError(t, nilLogger.Close())
}
