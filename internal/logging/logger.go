// Package logging builds the zap logger shared by the devkit binaries.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a console-encoded logger writing to stderr and, when logFile is
// non-empty, to logFile as well. An unknown level falls back to warn.
func New(level string, verbose bool, logFile string) (*zap.Logger, error) {
	logLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		logLevel = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	if verbose {
		logLevel.SetLevel(zapcore.DebugLevel)
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = logLevel
	loggerConfig.Encoding = "console"
	loggerConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	loggerConfig.DisableStacktrace = true
	loggerConfig.OutputPaths = []string{"stderr"}
	loggerConfig.ErrorOutputPaths = []string{"stderr"}

	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0755); err == nil {
			loggerConfig.OutputPaths = append(loggerConfig.OutputPaths, logFile)
		}
	}

	return loggerConfig.Build()
}
