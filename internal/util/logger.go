package util

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LevelEnv names the environment variable holding the default log level.
const LevelEnv = "METAENUM_LOG_LEVEL"

func levelFromEnv() zapcore.Level {
	raw := os.Getenv(LevelEnv)
	if raw == "" {
		return zapcore.WarnLevel
	}
	level, err := zapcore.ParseLevel(raw)
	if err != nil {
		return zapcore.WarnLevel
	}
	return level
}

// NewLogger builds a console logger writing to stderr at the given level.
func NewLogger(level zapcore.Level) *zap.Logger {
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		NameKey:        "logger",
		TimeKey:        "ts",
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	})
	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level)
	return zap.New(core).Named("metaenum")
}

// Logger is the package-wide default logger.
var Logger = NewLogger(levelFromEnv())

// Log logs msg at info level if verbose is true, at debug level otherwise.
func Log(logger *zap.Logger, verbose bool, msg string, fields ...zap.Field) {
	if verbose {
		logger.Info(msg, fields...)
		return
	}
	logger.Debug(msg, fields...)
}
