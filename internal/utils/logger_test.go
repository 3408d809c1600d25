package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPipelineLogger(t *testing.T) {
	t.Run("file sink appends with session separator", func(t *testing.T) {
		logPath := filepath.Join(t.TempDir(), "labexport.log")

		logger := NewPipelineLogger(true, logPath)
		logger.Info("first run")
		require.NoError(t, logger.Close())

		logger = NewPipelineLogger(true, logPath)
		logger.Info("second run", "rows", 12)
		require.NoError(t, logger.Close())

		data, err := os.ReadFile(logPath)
		require.NoError(t, err)
		content := string(data)

		assert.Equal(t, 2, strings.Count(content, "----- session"))
		assert.Contains(t, content, "first run")
		assert.Contains(t, content, "second run")
		assert.Contains(t, content, "rows=12")
	})

	t.Run("disabled logging writes no file", func(t *testing.T) {
		logPath := filepath.Join(t.TempDir(), "labexport.log")

		logger := NewPipelineLogger(false, logPath)
		logger.Info("console only")
		require.NoError(t, logger.Close())

		_, err := os.Stat(logPath)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("unopenable file degrades to console", func(t *testing.T) {
		logger := NewPipelineLogger(true, filepath.Join(t.TempDir(), "missing", "labexport.log"))
		logger.Info("still logs")
		assert.NoError(t, logger.Close())
	})

	t.Run("With preserves the file sink", func(t *testing.T) {
		logPath := filepath.Join(t.TempDir(), "labexport.log")

		logger := NewPipelineLogger(true, logPath)
		child := logger.With("run_id", "abc123")
		child.Info("scoped entry")
		require.NoError(t, logger.Close())

		data, err := os.ReadFile(logPath)
		require.NoError(t, err)
		assert.Contains(t, string(data), "run_id=abc123")
	})
}
