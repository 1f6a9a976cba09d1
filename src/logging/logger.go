package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents severity.
type LogLevel = zapcore.Level

const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

var levelNames = map[string]LogLevel{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

var (
	mu           sync.RWMutex
	currentLevel = zap.NewAtomicLevelAt(LevelInfo)
	runID        = uuid.NewString()
	baseLogger   = newLogger("console", currentLevel)
)

func newLogger(format string, level zap.AtomicLevel) *zap.SugaredLogger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encoder := zapcore.NewConsoleEncoder(encCfg)
	if format == "json" {
		encCfg = zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encCfg)
	}
	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
	return zap.New(core).Sugar().With("run_id", runID)
}

// Configure selects the encoder ("console" or "json") and level. Unknown levels keep the current one.
func Configure(level, format string) {
	SetLogLevel(level)
	mu.Lock()
	baseLogger = newLogger(strings.ToLower(strings.TrimSpace(format)), currentLevel)
	mu.Unlock()
}

// SetLogLevel parses and sets global log level.
func SetLogLevel(s string) {
	l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return
	}
	currentLevel.SetLevel(l)
}

// GetLogLevel returns current global log level.
func GetLogLevel() LogLevel { return currentLevel.Level() }

// RunID identifies this process in every log line.
func RunID() string { return runID }

// Replace swaps the underlying logger and returns a func restoring the previous one (tests).
func Replace(l *zap.Logger) func() {
	mu.Lock()
	saved := baseLogger
	baseLogger = l.Sugar().With("run_id", runID)
	mu.Unlock()
	return func() {
		mu.Lock()
		baseLogger = saved
		mu.Unlock()
	}
}

func logger() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return baseLogger
}

func logf(l LogLevel, format string, args ...interface{}) {
	if !currentLevel.Enabled(l) {
		return
	}
	// Only format when there are args; a plain message may carry literal % characters.
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	lg := logger()
	switch l {
	case LevelDebug:
		lg.Debug(msg)
	case LevelWarn:
		lg.Warn(msg)
	case LevelError:
		lg.Error(msg)
	default:
		lg.Info(msg)
	}
}

// Public helpers
func Debugf(format string, a ...interface{}) { logf(LevelDebug, format, a...) }
func Infof(format string, a ...interface{})  { logf(LevelInfo, format, a...) }
func Warnf(format string, a ...interface{})  { logf(LevelWarn, format, a...) }
func Errorf(format string, a ...interface{}) { logf(LevelError, format, a...) }

// With returns a structured logger carrying the given key/value pairs.
func With(kv ...interface{}) *zap.SugaredLogger { return logger().With(kv...) }

// Sync flushes buffered entries.
func Sync() { _ = logger().Sync() }

// Timing helper for phases.
func TimeTrack(start time.Time, label string) {
	Debugf("%s took %s", label, time.Since(start))
}
