// =============================================================================
// Fuel Journal Stats - Logging
// =============================================================================
//
// Every component logs through the small printf-style Logger interface below.
// The concrete implementation is zap's SugaredLogger:
//   - "console": development encoder, capitalised colour levels
//   - "json":    production encoder, ISO8601 timestamps
//
// =============================================================================

package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging interface used across the application.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// ZapLogger implements Logger on top of zap.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// Valid log levels and formats.
var (
	Levels  = []string{"debug", "info", "warn", "error"}
	Formats = []string{"console", "json"}
)

// New builds a zap-backed logger.
//
// PARAMETERS:
//   - level:  one of Levels.
//   - format: one of Formats.
func New(level, format string) (*ZapLogger, error) {
	var cfg zap.Config
	switch strings.ToLower(format) {
	case "json":
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	case "console", "":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("unknown log level %q: %w", level, err)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.MessageKey = "message"
	cfg.DisableStacktrace = true

	z, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return &ZapLogger{sugar: z.Sugar()}, nil
}

// NewWithCore wraps an existing zap core. Tests use it with an observer core.
func NewWithCore(core zapcore.Core) *ZapLogger {
	return &ZapLogger{sugar: zap.New(core).Sugar()}
}

// NewNop returns a logger that discards everything.
func NewNop() *ZapLogger {
	return &ZapLogger{sugar: zap.NewNop().Sugar()}
}

func (l *ZapLogger) Debug(msg string, args ...interface{}) { l.sugar.Debugf(msg, args...) }
func (l *ZapLogger) Info(msg string, args ...interface{})  { l.sugar.Infof(msg, args...) }
func (l *ZapLogger) Warn(msg string, args ...interface{})  { l.sugar.Warnf(msg, args...) }
func (l *ZapLogger) Error(msg string, args ...interface{}) { l.sugar.Errorf(msg, args...) }

// With returns a child logger carrying the given key/value pairs.
func (l *ZapLogger) With(keysAndValues ...interface{}) *ZapLogger {
	return &ZapLogger{sugar: l.sugar.With(keysAndValues...)}
}

// With derives a child of l carrying the given key/value pairs. Loggers
// other than *ZapLogger have no fields and are returned unchanged.
func With(l Logger, keysAndValues ...interface{}) Logger {
	if z, ok := l.(*ZapLogger); ok {
		return z.With(keysAndValues...)
	}
	return l
}

// Sync flushes buffered entries.
func (l *ZapLogger) Sync() error {
	return l.sugar.Sync()
}
