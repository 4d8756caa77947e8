package logging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	t.Parallel()

	log, err := New("debug", false)
	require.NoError(t, err)
	require.True(t, log.Core().Enabled(zapcore.DebugLevel))

	log, err = New("WARN", true)
	require.NoError(t, err)
	require.False(t, log.Core().Enabled(zapcore.InfoLevel))
	require.True(t, log.Core().Enabled(zapcore.WarnLevel))

	_, err = New("loud", false)
	require.Error(t, err)
}

func TestCommand_LogsOutcome(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	require.NoError(t, Command(log, "list", func(context.Context) error { return nil })(context.Background()))

	wantErr := errors.New("boom")
	err := Command(log, "add", func(context.Context) error { return wantErr })(context.Background())
	require.ErrorIs(t, err, wantErr)

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, "command", entries[0].Message)
	require.Equal(t, "list", entries[0].ContextMap()["command"])
	require.Equal(t, zapcore.WarnLevel, entries[1].Level)
	require.Equal(t, "add", entries[1].ContextMap()["command"])
	require.Equal(t, "boom", entries[1].ContextMap()["error"])
}

func TestRecover_CatchesPanic(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zapcore.DebugLevel)

	err := Recover(zap.New(core), "certify", func(context.Context) error { panic("oh no") })(context.Background())
	require.ErrorIs(t, err, ErrPanic)

	entries := logs.FilterMessage("panic").All()
	require.Len(t, entries, 1)
	require.Equal(t, "oh no", entries[0].ContextMap()["reason"])
	require.NotEmpty(t, entries[0].ContextMap()["stack"])
}

func TestWrap_NoPanicPassThrough(t *testing.T) {
	t.Parallel()
	called := false
	err := Wrap(zaptest.NewLogger(t), "show", func(context.Context) error {
		called = true
		return nil
	})(context.Background())
	require.NoError(t, err)
	require.True(t, called)
}
