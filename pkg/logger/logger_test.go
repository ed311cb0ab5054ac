package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"syscall"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mockLogLevel int8 = 0

func TestNewWritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	lgr, zl := New(Options{Level: 0, Writer: &buf})
	lgr.Info("dataset loaded", "rows", 3, SourceKey, "商品マスタ.csv")
	require.NoError(t, zl.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "dataset loaded", entry[MessageKey])
	assert.Equal(t, "商品マスタ.csv", entry[SourceKey])
	assert.EqualValues(t, 3, entry["rows"])
	assert.Contains(t, entry, TimeStampKey)
	assert.Contains(t, entry, VersionKey)
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	lgr, zl := New(Options{Level: 0, Writer: &buf})
	lgr.V(1).Info("debug detail")
	require.NoError(t, zl.Sync())
	assert.Empty(t, buf.String())

	buf.Reset()
	lgr, zl = New(Options{Level: -1, Writer: &buf})
	lgr.V(1).Info("debug detail")
	require.NoError(t, zl.Sync())
	assert.Contains(t, buf.String(), "debug detail")
}

func TestGetReturnsSameInstanceOnSubsequentCalls(t *testing.T) {
	logger1 := Get(mockLogLevel)
	logger2 := Get(mockLogLevel)
	require.NotNil(t, logger1)
	assert.Same(t, logger1, logger2)
}

func TestWithLoggerAddsLoggerToContext(t *testing.T) {
	lgr := Get(mockLogLevel)
	ctx := WithLogger(context.Background(), lgr)
	assert.Same(t, lgr, FromContext(ctx))
}

func TestWithLoggerReturnsSameContextIfLoggerAlreadySet(t *testing.T) {
	lgr := Get(mockLogLevel)
	ctx := context.WithValue(context.Background(), loggerContextKey{}, lgr)
	assert.Equal(t, ctx, WithLogger(ctx, lgr))
}

func TestWithLoggerReplacesLoggerIfDifferent(t *testing.T) {
	other := logr.Discard()
	ctx := WithLogger(context.Background(), Get(mockLogLevel))
	ctx = WithLogger(ctx, &other)
	assert.Same(t, &other, FromContext(ctx))
}

func TestFromContextFallsBackToNoop(t *testing.T) {
	orig := globalLogrLogger
	globalLogrLogger = nil
	defer func() { globalLogrLogger = orig }()

	assert.Same(t, &defaultNoopLogger, FromContext(context.Background()))
	assert.Same(t, &defaultNoopLogger, GetGlobalLogger())
}

func TestSyncWithoutGlobalLogger(t *testing.T) {
	orig := globalZapLogger
	globalZapLogger = nil
	defer func() { globalZapLogger = orig }()

	assert.NotPanics(t, Sync)
}

func TestIsIgnorableSyncError(t *testing.T) {
	assert.True(t, isIgnorableSyncError(syscall.ENOTTY))
	assert.True(t, isIgnorableSyncError(syscall.EINVAL))
	assert.True(t, isIgnorableSyncError(errors.New("sync /dev/stderr: The handle is invalid.")))
	assert.False(t, isIgnorableSyncError(errors.New("disk full")))
}

func TestWithValuesReturnsNewLogger(t *testing.T) {
	lgr := Get(mockLogLevel)
	withSession := WithValues(lgr, SessionKey, "abc")
	require.NotNil(t, withSession)
	assert.NotSame(t, lgr, withSession)
}

func TestGetNoopLoggerIsNoop(t *testing.T) {
	assert.NotPanics(t, func() {
		GetNoopLogger().Info("this should do nothing")
	})
}
