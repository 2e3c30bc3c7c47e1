package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	log, err := New("warn")
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))

	_, err = New("loud")
	require.Error(t, err)
}

func TestNewConsoleVerbosity(t *testing.T) {
	quiet := Must(NewConsole(false))
	assert.False(t, quiet.Core().Enabled(zapcore.InfoLevel))

	verbose := Must(NewConsole(true))
	assert.True(t, verbose.Core().Enabled(zapcore.DebugLevel))
}

func TestNamedNilBase(t *testing.T) {
	assert.NotNil(t, Named(nil, "x"))
}
