package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a console zap logger with colored levels writing to stdout.
// An unknown level falls back to info.
func New(level string) *zap.SugaredLogger {
	return NewTo(os.Stdout, level)
}

// NewTo is New with an explicit destination; the CLI logs to stderr so its
// stdout stays machine readable.
func NewTo(out zapcore.WriteSyncer, level string) *zap.SugaredLogger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), out, lvl)
	return zap.New(core).Sugar()
}
