package utilities

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestIDs(t *testing.T) {
	id := NewUUID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, NewUUID())

	_, err = ksuid.Parse(NewKSUID())
	assert.NoError(t, err)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_DEV", "1")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FILE", "")
	t.Setenv("LOG_MAX_AGE_DAYS", "")
	cfg := ConfigFromEnv()
	assert.Equal(t, "debug", cfg.Level)
	assert.True(t, cfg.Dev)
	assert.Equal(t, 7, cfg.MaxAgeDays)

	t.Setenv("LOG_DEV", "")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_MAX_AGE_DAYS", "30")
	cfg = ConfigFromEnv()
	assert.Equal(t, "warn", cfg.Level)
	assert.Equal(t, 30, cfg.MaxAgeDays)
	assert.Equal(t, zapcore.WarnLevel, levelFromString(cfg.Level))
	assert.Equal(t, zapcore.InfoLevel, levelFromString("bogus"))
}

func TestInitWritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")
	lg, err := Init(Config{Level: "info", File: path, MaxAgeDays: 1})
	require.NoError(t, err)
	lg.Info("hello", zap.String("k", "v"))
	_ = lg.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"hello"`)
	assert.Contains(t, string(b), `"k":"v"`)
}

func TestLoggerContext(t *testing.T) {
	fallback := zap.NewNop().Sugar()
	assert.Same(t, fallback, LoggerFrom(context.Background(), fallback))

	scoped := zap.NewNop().Sugar().With("request_id", "r1")
	ctx := WithLogger(context.Background(), scoped)
	assert.Same(t, scoped, LoggerFrom(ctx, fallback))
}
