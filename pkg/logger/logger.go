package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Logger *zap.Logger

// InitLogger initializes the Zap logger. Production logs at info with a
// JSON encoder; everything else logs at debug with a console encoder.
func InitLogger(environment string) error {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var level zapcore.Level
	var encoder zapcore.Encoder
	switch environment {
	case "production":
		level = zapcore.InfoLevel
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	default:
		level = zapcore.DebugLevel
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level)
	Logger = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	return nil
}

// GetLogger returns the global logger, falling back to a no-op logger
// when InitLogger has not run (tests).
func GetLogger() *zap.Logger {
	if Logger == nil {
		Logger = zap.NewNop()
	}
	return Logger
}

// Sync flushes buffered log entries
func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// LogRequest logs a completed HTTP request in a standard shape
func LogRequest(method, path string, status int, latencyMs int64, clientIP, userAgent string) {
	GetLogger().Info("HTTP request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status_code", status),
		zap.Int64("latency_ms", latencyMs),
		zap.String("client_ip", clientIP),
		zap.String("user_agent", userAgent),
	)
}
