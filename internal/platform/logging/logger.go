// Package logging provides the process-wide zap logger in Cloud Logging
// format together with request-scoped helpers.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/janisto/profile-composer/internal/platform/timeutil"
)

// LevelEnv names the environment variable that sets the minimum level of the
// process logger (debug, info, warn, error). Info when unset.
const LevelEnv = "LOG_LEVEL"

var (
	loggerOnce sync.Once
	baseLogger *zap.Logger
	loggerErr  error
)

// Cloud Logging severity names.
var severities = map[zapcore.Level]string{
	zapcore.DebugLevel:  "DEBUG",
	zapcore.InfoLevel:   "INFO",
	zapcore.WarnLevel:   "WARNING",
	zapcore.ErrorLevel:  "ERROR",
	zapcore.DPanicLevel: "CRITICAL",
	zapcore.PanicLevel:  "ALERT",
	zapcore.FatalLevel:  "EMERGENCY",
}

func encodeSeverity(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	if s, ok := severities[level]; ok {
		enc.AppendString(s)
		return
	}
	enc.AppendString("DEFAULT")
}

func encodeTimeMicros(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.UTC().Format(timeutil.RFC3339Micros))
}

func cloudEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "severity",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    encodeSeverity,
		EncodeTime:     encodeTimeMicros,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

func levelFromEnv() (zapcore.Level, error) {
	raw := strings.TrimSpace(os.Getenv(LevelEnv))
	if raw == "" {
		return zapcore.InfoLevel, nil
	}
	level, err := zapcore.ParseLevel(raw)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("%s: %w", LevelEnv, err)
	}
	return level, nil
}

// initLogger builds the stdout JSON logger. An invalid level falls back to
// info and is reported through Err.
func initLogger() {
	var level zapcore.Level
	level, loggerErr = levelFromEnv()
	out := zapcore.Lock(os.Stdout)
	core := zapcore.NewCore(zapcore.NewJSONEncoder(cloudEncoderConfig()), out, level)
	baseLogger = zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.ErrorOutput(out),
	)
}

// Logger returns the process-wide zap.Logger instance.
func Logger() *zap.Logger {
	loggerOnce.Do(initLogger)
	return baseLogger
}

// Sync flushes buffered log entries. Call during shutdown.
func Sync() error {
	return Logger().Sync()
}

// Err reports a configuration problem found while building the logger.
func Err() error {
	loggerOnce.Do(initLogger)
	return loggerErr
}

// NewConsoleLogger returns a human-readable logger writing to w at level and
// above. Command-line tools use it for stderr diagnostics.
func NewConsoleLogger(w io.Writer, level zapcore.Level) *zap.Logger {
	cfg := cloudEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.CallerKey = zapcore.OmitKey
	cfg.StacktraceKey = zapcore.OmitKey
	return zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(w), level))
}
