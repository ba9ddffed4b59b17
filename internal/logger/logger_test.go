package logger

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("nonsense"))
}

func TestNewWritesToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "app.log")
	l, err := New(Config{Level: "debug", OutputPaths: []string{out}})
	require.NoError(t, err)

	l.With(String("component", "test")).Info("hello", Int("n", 1), Error(errors.New("boom")))
	_ = l.Sync()
	assert.FileExists(t, out)
}

func TestNopIsSafe(t *testing.T) {
	l := NewNop()
	l.With(String("a", "b")).Error("ignored")
	assert.NoError(t, l.Sync())
}
