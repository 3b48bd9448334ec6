package logging_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/turtacn/HSCode-Intelligence/internal/infrastructure/monitoring/logging"
)

func observedLogger(level zapcore.Level) (logging.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return logging.NewLoggerFromCore(core), logs
}

func TestLogger_EmitsStructuredFields(t *testing.T) {
	t.Parallel()

	log, logs := observedLogger(zapcore.DebugLevel)
	log.Info("catalog loaded",
		logging.Int("entries", 42),
		logging.String("source", "postgres"),
		logging.Duration("elapsed", 5*time.Millisecond),
		logging.Bool("cached", false),
	)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "catalog loaded", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.EqualValues(t, 42, fields["entries"])
	assert.Equal(t, "postgres", fields["source"])
	assert.EqualValues(t, false, fields["cached"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	t.Parallel()

	log, logs := observedLogger(zapcore.WarnLevel)
	log.Debug("dropped")
	log.Info("dropped too")
	log.Warn("kept")
	log.Error("kept", logging.Err(errors.New("boom")))

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "boom", logs.All()[1].ContextMap()["error"])
}

func TestLogger_WithAndNamed(t *testing.T) {
	t.Parallel()

	log, logs := observedLogger(zapcore.InfoLevel)
	child := log.With(logging.String("batch_id", "b-1")).Named("worker")
	child.Info("item classified")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "worker", entries[0].LoggerName)
	assert.Equal(t, "b-1", entries[0].ContextMap()["batch_id"])
}

func TestErrField_NilError(t *testing.T) {
	t.Parallel()

	f := logging.Err(nil)
	assert.Equal(t, "error", f.Key)
	assert.Equal(t, "<nil>", f.Value)
}

func TestNewLogger_DefaultsApplied(t *testing.T) {
	t.Parallel()

	log, err := logging.NewLogger(logging.LogConfig{})
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestNopLogger_DiscardsEverything(t *testing.T) {
	t.Parallel()

	log := logging.NewNopLogger()
	// Must not panic and child loggers keep discarding.
	log.With(logging.Int("n", 1)).Named("x").Info("ignored")
}

func TestDefaultLogger_Swap(t *testing.T) {
	log, logs := observedLogger(zapcore.InfoLevel)
	prev := logging.Default()
	logging.SetDefault(log)
	defer logging.SetDefault(prev)

	logging.Default().Info("via default")
	require.Equal(t, 1, logs.Len())

	// nil is ignored rather than clobbering the default.
	logging.SetDefault(nil)
	logging.Default().Info("still via default")
	assert.Equal(t, 2, logs.Len())
}

//Personal.AI order the ending
