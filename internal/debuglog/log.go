package debuglog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelOff // Disables all logging
)

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a string into a LogLevel. Unknown values map to INFO.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "OFF":
		return LevelOff
	default:
		return LevelInfo
	}
}

func (l LogLevel) charm() log.Level {
	switch l {
	case LevelDebug:
		return log.DebugLevel
	case LevelInfo:
		return log.InfoLevel
	case LevelWarn:
		return log.WarnLevel
	default:
		return log.ErrorLevel
	}
}

var (
	mu           sync.RWMutex
	currentLevel = LevelOff
	logger       *log.Logger
	logFile      *os.File
)

// Setup configures the logging system with the specified level and optional file path.
// If filePath is empty, defaults to ~/.srch/srch.log.
func Setup(level LogLevel, filePath ...string) error {
	mu.Lock()
	defer mu.Unlock()

	currentLevel = level
	closeLocked()

	if level == LevelOff {
		return nil
	}

	var logPath string
	if len(filePath) > 0 && filePath[0] != "" {
		logPath = filePath[0]
	} else {
		home, _ := os.UserHomeDir()
		logPath = filepath.Join(home, ".srch", "srch.log")
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	logFile = f
	logger = newLogger(f, level)
	return nil
}

// SetOutput routes logs to w instead of a file. Used by the one-shot CLI
// commands with --verbose.
func SetOutput(w io.Writer, level LogLevel) {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()
	currentLevel = level
	if level == LevelOff {
		return
	}
	logger = newLogger(w, level)
}

func newLogger(w io.Writer, level LogLevel) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           level.charm(),
		Prefix:          "srch",
	})
}

func SetLevel(level LogLevel) {
	mu.Lock()
	defer mu.Unlock()

	currentLevel = level
	if logger != nil && level != LevelOff {
		logger.SetLevel(level.charm())
	}
}

func GetLevel() LogLevel {
	mu.RLock()
	defer mu.RUnlock()
	return currentLevel
}

// Close closes the log file if open
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	return closeLocked()
}

func closeLocked() error {
	logger = nil
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

func emit(level LogLevel, msg string, keyvals ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()

	if logger == nil || level < currentLevel {
		return
	}
	switch level {
	case LevelDebug:
		logger.Debug(msg, keyvals...)
	case LevelInfo:
		logger.Info(msg, keyvals...)
	case LevelWarn:
		logger.Warn(msg, keyvals...)
	case LevelError:
		logger.Error(msg, keyvals...)
	}
}

func Debugf(format string, args ...any) {
	emit(LevelDebug, fmt.Sprintf(format, args...))
}

func Infof(format string, args ...any) {
	emit(LevelInfo, fmt.Sprintf(format, args...))
}

func Warnf(format string, args ...any) {
	emit(LevelWarn, fmt.Sprintf(format, args...))
}

func Errorf(format string, args ...any) {
	emit(LevelError, fmt.Sprintf(format, args...))
}

// FieldLogger attaches key/value pairs to every message.
type FieldLogger struct {
	keyvals []interface{}
}

// WithFields returns a logger that appends fields to each message. Keys
// are written in sorted order.
func WithFields(fields map[string]interface{}) *FieldLogger {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kv := make([]interface{}, 0, len(fields)*2)
	for _, k := range keys {
		kv = append(kv, k, fields[k])
	}
	return &FieldLogger{keyvals: kv}
}

func (fl *FieldLogger) Debug(msg string) { emit(LevelDebug, msg, fl.keyvals...) }
func (fl *FieldLogger) Info(msg string)  { emit(LevelInfo, msg, fl.keyvals...) }
func (fl *FieldLogger) Warn(msg string)  { emit(LevelWarn, msg, fl.keyvals...) }
func (fl *FieldLogger) Error(msg string) { emit(LevelError, msg, fl.keyvals...) }

func (fl *FieldLogger) Debugf(format string, args ...any) {
	emit(LevelDebug, fmt.Sprintf(format, args...), fl.keyvals...)
}

func (fl *FieldLogger) Infof(format string, args ...any) {
	emit(LevelInfo, fmt.Sprintf(format, args...), fl.keyvals...)
}

func (fl *FieldLogger) Warnf(format string, args ...any) {
	emit(LevelWarn, fmt.Sprintf(format, args...), fl.keyvals...)
}

func (fl *FieldLogger) Errorf(format string, args ...any) {
	emit(LevelError, fmt.Sprintf(format, args...), fl.keyvals...)
}
