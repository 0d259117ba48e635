// Package vlog provides the structured logger used across the core.
//
// Every subsystem constructor accepts a *zap.Logger (or nil, in which case a
// no-op logger is substituted) the same way fb2cng's LoggingConfig.Prepare
// hands a configured *zap.Logger down into its converters.
package vlog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a console logger at the given level ("debug", "info", "warn",
// "error"). An empty level defaults to "info".
func New(level string) *zap.Logger {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	ec.TimeKey = zapcore.OmitKey

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(ec),
		zapcore.Lock(os.Stderr),
		lvl,
	)
	return zap.New(core)
}

// Nop returns a logger that discards everything, for callers that don't want
// to thread a logger through but still need a non-nil one.
func Nop() *zap.Logger {
	return zap.NewNop()
}

// Named returns log.Named(name) unless log is nil, in which case it returns
// a fresh no-op logger. Every subsystem should call this once in its
// constructor rather than checking for nil at every call site.
func Named(log *zap.Logger, name string) *zap.Logger {
	if log == nil {
		return Nop().Named(name)
	}
	return log.Named(name)
}
