package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubStatus struct {
	provider string
	err      error
}

func (s stubStatus) Provider(context.Context) (string, error) { return s.provider, s.err }
func (s stubStatus) BaseDir(context.Context) string           { return "/data" }

func TestLogStartup(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logStartup(context.Background(), stubStatus{provider: "azure"}, zap.New(core).Sugar())

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "run: using provider azure, data folder /data. Press Ctrl+C to exit.", logs.All()[0].Message)
}

func TestLogStartupSettingsError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logStartup(context.Background(), stubStatus{err: errors.New("database is locked")}, zap.New(core).Sugar())

	warns := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warns, 1)
	assert.Equal(t, "run: reading provider setting: database is locked", warns[0].Message)
	assert.Contains(t, logs.FilterLevelExact(zapcore.InfoLevel).All()[0].Message, "using provider unknown")
}
