package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_Defaults(t *testing.T) {
	log, err := New(Config{})
	require.NoError(t, err)
	require.NotNil(t, log)
	assert.True(t, log.Core().Enabled(zap.InfoLevel))
	assert.False(t, log.Core().Enabled(zap.DebugLevel))
	_ = log.Sync()
}

func TestNew_ConsoleEncodingAndLevel(t *testing.T) {
	log, err := New(Config{Level: "DEBUG", Encoding: "Console"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.DebugLevel))
	_ = log.Sync()
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	require.Error(t, err)
}
