// Package logger provides structured JSON logging for svist.
// The TUI owns the terminal, so entries go to a file in the vault rather
// than to stdout.
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger writes leveled JSON entries. It is safe for concurrent use.
type Logger struct {
	z     *zap.Logger
	close func() error
}

// NewLogger creates a logger appending JSON lines to logPath at the given
// level ("debug", "info", "warn", "error"). The log directory is created if
// it doesn't exist.
//
// Example:
//
//	log, err := logger.NewLogger("/home/me/.svist/svist.log", "info")
//	if err != nil {
//	    return err
//	}
//	defer log.Close()
func NewLogger(logPath, level string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	sink, err := openSink(logPath)
	if err != nil {
		return nil, err
	}

	lvl, err := ParseLevel(level)
	if err != nil {
		_ = sink.Close()
		return nil, err
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), sink, lvl)
	return &Logger{
		z:     zap.New(core),
		close: sink.Close,
	}, nil
}

// New wraps an existing zap logger. Close only syncs it.
func New(z *zap.Logger) *Logger {
	return &Logger{z: z}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return New(zap.NewNop())
}

// With returns a child logger that adds fields to every entry.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{z: l.z.With(fields...)}
}

// Close flushes buffered entries and closes the log file.
// It's safe to call Close multiple times.
func (l *Logger) Close() error {
	_ = l.z.Sync()
	if l.close == nil {
		return nil
	}
	err := l.close()
	l.close = nil
	return err
}

func (l *Logger) Info(message string, fields ...zap.Field) {
	l.z.Info(message, fields...)
}

// Error logs message with err attached under the "error" key. A nil err is
// logged as a warning instead.
func (l *Logger) Error(message string, err error, fields ...zap.Field) {
	if err == nil {
		l.z.Warn(message+" (no error provided)", fields...)
		return
	}
	l.z.Error(message, append(fields, zap.Error(err))...)
}

func (l *Logger) Warn(message string, fields ...zap.Field) {
	l.z.Warn(message, fields...)
}

func (l *Logger) Debug(message string, fields ...zap.Field) {
	l.z.Debug(message, fields...)
}
