package cli

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewConsoleLogger builds the human-readable stderr logger used by the CLI.
func NewConsoleLogger(level zapcore.Level) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	return cfg.Build()
}

// InstallLogger replaces the global zap logger with a console logger at level.
// The returned func restores the previous logger.
func InstallLogger(level zapcore.Level) (func(), error) {
	log, err := NewConsoleLogger(level)
	if err != nil {
		return nil, err
	}
	undo := zap.ReplaceGlobals(log)
	return func() {
		_ = log.Sync()
		undo()
	}, nil
}
