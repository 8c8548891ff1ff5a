package logging_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/reparse/internal/logging"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		level    string
		expected log.Level
	}{
		{"debug level", "debug", log.DebugLevel},
		{"info level", "info", log.InfoLevel},
		{"warn level", "warn", log.WarnLevel},
		{"warning level", "warning", log.WarnLevel},
		{"error level", "error", log.ErrorLevel},
		{"invalid defaults to info", "invalid", log.InfoLevel},
		{"empty defaults to info", "", log.InfoLevel},
		{"case insensitive DEBUG", "DEBUG", log.DebugLevel},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			logger := logging.New(testCase.level)
			require.NotNil(t, logger)
			assert.Equal(t, testCase.expected, logger.GetLevel())
		})
	}
}

func TestNewInteractive(t *testing.T) {
	t.Parallel()

	logger := logging.NewInteractive()
	require.NotNil(t, logger)
	assert.Equal(t, log.InfoLevel, logger.GetLevel())
}

func TestSetDefaultAndLevel(t *testing.T) {
	// Not parallel: mutates the package default.
	original := logging.Default()
	defer logging.SetDefault(original)

	testLogger := logging.New("info")
	logging.SetDefault(testLogger)
	assert.Same(t, testLogger, logging.Default())

	logging.SetLevel("debug")
	assert.Equal(t, log.DebugLevel, logging.Default().GetLevel())

	logging.SetLevel("error")
	assert.Equal(t, log.ErrorLevel, logging.Default().GetLevel())
}

func TestContextLogger(t *testing.T) {
	t.Parallel()

	logger := logging.New("warn")
	ctx := logging.WithLogger(context.Background(), logger)

	assert.Same(t, logger, logging.FromContext(ctx))
	assert.NotNil(t, logging.FromContext(context.Background()))
}

func TestWithFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := logging.WithLogger(context.Background(), log.New(&buf))
	ctx = logging.WithFields(ctx, logging.FieldPath, "notes.md")

	logging.FromContext(ctx).Warn("inconsistent reparse")

	assert.Contains(t, buf.String(), "inconsistent reparse")
	assert.Contains(t, buf.String(), "path=notes.md")
	assert.NotNil(t, logging.FromContext(logging.WithFields(context.Background())))
}

func TestExpansionFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)

	logger.Debug("expanded collapsed nodes", logging.FieldPath, "list.mini", logging.FieldExpanded, 2)

	assert.Contains(t, buf.String(), "path=list.mini")
	assert.Contains(t, buf.String(), "expanded=2")
}
