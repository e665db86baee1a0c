// Package logger holds the application-wide zap logger.
//
// L and S start as no-op loggers so library code can log unconditionally;
// Setup replaces them once the command line has been parsed.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	L = zap.NewNop()
	S = L.Sugar()
)

// Setup configures the global loggers. Verbose mode logs at debug level in the
// human readable development format; otherwise only warnings and errors are
// written. Output always goes to stderr so stdout stays free for reports.
func Setup(verbose bool) error {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	L = l
	S = l.Sugar()
	return nil
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = L.Sync()
}
