package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level       string
		development bool
		enabled     zapcore.Level
		disabled    zapcore.Level
	}{
		{"info", false, zapcore.InfoLevel, zapcore.DebugLevel},
		{"debug", true, zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"warn", false, zapcore.WarnLevel, zapcore.InfoLevel},
		{"ERROR", false, zapcore.ErrorLevel, zapcore.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log, err := New(tt.level, tt.development)
			require.NoError(t, err)
			defer log.Sync()

			assert.True(t, log.Core().Enabled(tt.enabled))
			assert.False(t, log.Core().Enabled(tt.disabled))
		})
	}
}

func TestNew_UnknownLevel(t *testing.T) {
	_, err := New("loud", false)
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	log := Nop()
	require.NotNil(t, log)
	log.Infow("discarded", "key", "value")
}
