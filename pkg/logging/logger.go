package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger provides structured logging for pomkit components.
// Entries go to the console and to a session-specific rotating file
// in the configured log directory (./logs by default).
type Logger struct {
	sessionID string
	component string
	sugar     *zap.SugaredLogger
	base      *zap.Logger
	file      *lumberjack.Logger
	logPath   string
	closeOnce sync.Once
}

// Options tunes logger construction.
type Options struct {
	// Dir is the log directory. Empty means "logs" under the working directory.
	Dir string

	// Level is a zap level name ("debug", "info", ...). Invalid names fall back to info.
	Level string

	// Console mirrors entries to stderr when true.
	Console bool
}

var (
	// Global session ID for the current execution
	sessionID     string
	sessionIDOnce sync.Once
)

// getSessionID returns or creates the session ID for this execution
func getSessionID() string {
	sessionIDOnce.Do(func() {
		sessionID = uuid.New().String()
	})
	return sessionID
}

// NewLogger creates a logger for a specific component writing to
// <dir>/<session-id>-pomkit.log.
//
// If the log directory cannot be created it returns a stderr-only logger
// along with the error, so callers can warn and keep going.
func NewLogger(component string, opts Options) (*Logger, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(opts.Level)); err != nil || opts.Level == "" {
		level.SetLevel(zap.InfoLevel)
	}

	dir := opts.Dir
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return newFallbackLogger(component, level), fmt.Errorf("failed to create log directory: %w", err)
	}

	sessID := getSessionID()
	logPath := filepath.Join(dir, fmt.Sprintf("%s-pomkit.log", sessID))

	// lumberjack handles rotation and serialises concurrent writes.
	file := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    50,
		MaxBackups: 3,
		MaxAge:     14,
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(file), level),
	}
	if opts.Console {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.Lock(os.Stderr), level))
	}

	base := zap.New(zapcore.NewTee(cores...)).Named(component).With(zap.String("session", sessID))

	return &Logger{
		sessionID: sessID,
		component: component,
		sugar:     base.Sugar(),
		base:      base,
		file:      file,
		logPath:   logPath,
	}, nil
}

// newFallbackLogger creates a logger that writes to stderr when file logging fails
func newFallbackLogger(component string, level zap.AtomicLevel) *Logger {
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.Lock(os.Stderr), level)
	base := zap.New(core).Named(component)
	base.Warn("Failed to initialize file logging, falling back to stderr")

	return &Logger{
		sessionID: getSessionID(),
		component: component,
		sugar:     base.Sugar(),
		base:      base,
	}
}

// FromZap wraps an existing zap logger, e.g. zaptest.NewLogger in tests.
func FromZap(component string, z *zap.Logger) *Logger {
	base := z.Named(component)
	return &Logger{
		sessionID: getSessionID(),
		component: component,
		sugar:     base.Sugar(),
		base:      base,
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return FromZap("nop", zap.NewNop())
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

// Debugf logs a debug-level message
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.sugar.Debugf(format, v...)
}

// Infof logs an info-level message
func (l *Logger) Infof(format string, v ...interface{}) {
	l.sugar.Infof(format, v...)
}

// Warnf logs a warning-level message
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.sugar.Warnf(format, v...)
}

// Errorf logs an error-level message
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.sugar.Errorf(format, v...)
}

// Infow logs a message with structured key-value pairs.
func (l *Logger) Infow(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, keysAndValues...)
}

// With returns a child logger carrying the given key-value pairs.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	child := l.sugar.With(keysAndValues...)
	return &Logger{
		sessionID: l.sessionID,
		component: l.component,
		sugar:     child,
		base:      child.Desugar(),
		file:      l.file,
		logPath:   l.logPath,
	}
}

// Zap exposes the underlying zap logger.
func (l *Logger) Zap() *zap.Logger {
	return l.base
}

// SessionID returns the current session ID
func (l *Logger) SessionID() string {
	return l.sessionID
}

// Component returns the component name the logger was created with.
func (l *Logger) Component() string {
	return l.component
}

// LogPath returns the path to the log file, or "" for stderr-only loggers.
func (l *Logger) LogPath() string {
	return l.logPath
}

// Close flushes buffered entries and closes the log file. Safe to call multiple times.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		_ = l.base.Sync()
		if l.file != nil {
			err = l.file.Close()
		}
	})
	return err
}

// GetSessionID returns the current global session ID
func GetSessionID() string {
	return getSessionID()
}
