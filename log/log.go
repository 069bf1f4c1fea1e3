// Package log builds the zap loggers used across coursepipe.
// Terminal output is human readable; file output is JSON, rotated by lumberjack.
package log

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Plugin is one log sink: encoder, writer and level filter.
type Plugin = zapcore.Core

// DefaultEncoderConfig is the production config with capital levels and ISO8601 times.
func DefaultEncoderConfig() zapcore.EncoderConfig {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return encoderConfig
}

// DefaultOption records the caller and attaches stack traces from DPanic up.
func DefaultOption() []zap.Option {
	var stackTraceLevel zap.LevelEnablerFunc = func(level zapcore.Level) bool {
		return level >= zapcore.DPanicLevel
	}
	return []zap.Option{
		zap.AddCaller(),
		zap.AddStacktrace(stackTraceLevel),
	}
}

// DefaultLumberjackLogger rotates at 200MB and compresses old files.
func DefaultLumberjackLogger() *lumberjack.Logger {
	return &lumberjack.Logger{
		MaxSize:   200,
		LocalTime: true,
		Compress:  true,
	}
}

// NewLogger combines plugins into a logger with the default options.
func NewLogger(plugins ...Plugin) *zap.Logger {
	return zap.New(zapcore.NewTee(plugins...), DefaultOption()...)
}

// NewStderrPlugin writes console-formatted entries to stderr.
func NewStderrPlugin(enabler zapcore.LevelEnabler) Plugin {
	encoderConfig := DefaultEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.Lock(zapcore.AddSync(os.Stderr)), enabler)
}

// NewFilePlugin writes JSON entries to a rotated file. Lumberjack does not
// expose Sync, so the returned closer must be closed before exit to flush.
func NewFilePlugin(filePath string, enabler zapcore.LevelEnabler) (Plugin, io.Closer) {
	writer := DefaultLumberjackLogger()
	writer.Filename = filePath
	return zapcore.NewCore(zapcore.NewJSONEncoder(DefaultEncoderConfig()), zapcore.AddSync(writer), enabler), writer
}

// ParseLevel turns a flag value such as "debug" into a level.
func ParseLevel(s string) (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
