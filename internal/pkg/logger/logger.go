package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	slogzap "github.com/samber/slog-zap/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Options configures the global logger.
type Options struct {
	Level  string    // debug, info, warn, error
	Format string    // json (zap) or console (tint)
	Output io.Writer // defaults to stdout
}

var (
	mu           sync.RWMutex
	globalLogger *slog.Logger
	zapLogger    *zap.Logger
)

// ParseLevel maps a level name onto slog. Unknown names give info.
func ParseLevel(levelStr string) (slog.Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "DEBUG":
		return slog.LevelDebug, true
	case "INFO", "":
		return slog.LevelInfo, true
	case "WARN", "WARNING":
		return slog.LevelWarn, true
	case "ERROR":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// InitSlog builds the global slog logger and installs it as slog.Default.
// The json format is backed by zap, the console format by tint.
func InitSlog(opts Options) {
	level, ok := ParseLevel(opts.Level)
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	var handler slog.Handler
	var newZap *zap.Logger
	switch strings.ToLower(opts.Format) {
	case FormatConsole:
		handler = tint.NewHandler(out, &tint.Options{
			Level:      level,
			TimeFormat: time.RFC3339,
		})
	default:
		newZap = newZapLogger(out, level)
		handler = slogzap.Option{Level: level, Logger: newZap}.NewZapHandler()
	}

	l := slog.New(handler)

	mu.Lock()
	if zapLogger != nil {
		_ = zapLogger.Sync()
	}
	globalLogger = l
	zapLogger = newZap
	mu.Unlock()

	slog.SetDefault(l)
	if !ok {
		l.Warn("Invalid log level string, defaulting to INFO", "input", opts.Level)
	}
}

func newZapLogger(out io.Writer, level slog.Level) *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	return zap.New(zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(zapcore.AddSync(out)),
		zap.NewAtomicLevelAt(zapLevel(level)),
	), zap.AddStacktrace(zapcore.ErrorLevel))
}

func zapLevel(level slog.Level) zapcore.Level {
	switch {
	case level <= slog.LevelDebug:
		return zapcore.DebugLevel
	case level <= slog.LevelInfo:
		return zapcore.InfoLevel
	case level <= slog.LevelWarn:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

// Sync flushes buffered zap output. Safe to call with the console format.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	if zapLogger != nil {
		_ = zapLogger.Sync()
	}
}

func current() *slog.Logger {
	mu.RLock()
	l := globalLogger
	mu.RUnlock()
	if l != nil {
		return l
	}
	InitSlog(Options{Level: "info"})
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

// Debug logs a message at DebugLevel.
func Debug(msg string, args ...any) {
	l := current()
	if l.Enabled(context.Background(), slog.LevelDebug) {
		l.Debug(msg, args...)
	}
}

// Info logs a message at InfoLevel.
func Info(msg string, args ...any) {
	current().Info(msg, args...)
}

// Warn logs a message at WarnLevel.
func Warn(msg string, args ...any) {
	current().Warn(msg, args...)
}

// Error logs a message at ErrorLevel.
func Error(msg string, args ...any) {
	current().Error(msg, args...)
}
