package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	testCases := []struct {
		name      string
		level     string
		format    string
		wantLevel zapcore.Level
		wantErr   string
	}{
		{name: "structured info", level: "info", format: "structured", wantLevel: zapcore.InfoLevel},
		{name: "console debug", level: "debug", format: "console", wantLevel: zapcore.DebugLevel},
		{name: "case insensitive", level: " WARN ", format: "Console", wantLevel: zapcore.WarnLevel},
		{name: "unknown level", level: "verbose", format: "structured", wantErr: "unsupported log level"},
		{name: "unknown format", level: "info", format: "xml", wantErr: "unsupported log format"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logger, err := New(tc.level, tc.format)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tc.wantLevel))
			if tc.wantLevel > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(tc.wantLevel-1))
			}
		})
	}
}
