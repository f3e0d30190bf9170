package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed(level zapcore.Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return &Logger{SugaredLogger: zap.New(core).Sugar()}, logs
}

func TestLogger_KeyValues(t *testing.T) {
	log, logs := observed(zapcore.DebugLevel)

	log.Info("pair created", "match_id", int64(7), "score", 82)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "pair created", entry.Message)
	assert.Equal(t, int64(7), entry.ContextMap()["match_id"])
	assert.Equal(t, int64(82), entry.ContextMap()["score"])
}

func TestLogger_WithCarriesFields(t *testing.T) {
	log, logs := observed(zapcore.InfoLevel)

	child := log.With("component", "matcher")
	child.Warn("email failed")
	child.Debug("filtered out")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "matcher", logs.All()[0].ContextMap()["component"])
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
}

func TestNew(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		log, err := New(env)
		require.NoError(t, err)
		assert.NotNil(t, log.SugaredLogger)
	}
	assert.NotPanics(t, func() { NewNop().Error("ignored", "k", "v") })
}
