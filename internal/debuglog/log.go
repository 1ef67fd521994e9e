// Package debuglog writes diagnostic logs to a file. The terminal belongs to
// the TUI, so nothing is ever written to stdout or stderr.
package debuglog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/adrg/xdg"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pders01/ntsearch/internal/validation"
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

// String returns the string representation of the log level
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

// ParseLogLevel parses a string into a LogLevel
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
	case "OFF", "NONE":
		return LevelOff
	default:
		return LevelInfo
	}
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

var (
	mu           sync.RWMutex
	currentLevel = LevelOff
	atomicLevel  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	logger       *zap.SugaredLogger
	logFile      *os.File
)

// DefaultPath is the log file used when Setup is given no path.
func DefaultPath() string {
	return filepath.Join(xdg.StateHome, "ntsearch", "ntsearch.log")
}

// Setup configures the logging system with the specified level and optional file path.
func Setup(level LogLevel, filePath ...string) error {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()
	currentLevel = level

	if level == LevelOff {
		return nil
	}

	logPath := DefaultPath()
	if len(filePath) > 0 && filePath[0] != "" {
		logPath = filePath[0]
	}

	logPath, err := validation.PrepareFile(logPath)
	if err != nil {
		return fmt.Errorf("failed to prepare log file: %w", err)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	atomicLevel.SetLevel(level.zapLevel())
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(f), atomicLevel)

	logFile = f
	logger = zap.New(core).Named("ntsearch").Sugar()
	return nil
}

// SetLevel changes the current logging level. Switching to LevelOff
// silences output without closing the file.
func SetLevel(level LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	currentLevel = level
	if level != LevelOff {
		atomicLevel.SetLevel(level.zapLevel())
	}
}

// GetLevel returns the current logging level
func GetLevel() LogLevel {
	mu.RLock()
	defer mu.RUnlock()
	return currentLevel
}

// Close flushes and closes the log file if open
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	return closeLocked()
}

func closeLocked() error {
	if logger != nil {
		_ = logger.Sync()
		logger = nil
	}
	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		return err
	}
	return nil
}

func active() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	if currentLevel == LevelOff {
		return nil
	}
	return logger
}

func Debugf(format string, args ...any) {
	if l := active(); l != nil {
		l.Debugf(format, args...)
	}
}

func Infof(format string, args ...any) {
	if l := active(); l != nil {
		l.Infof(format, args...)
	}
}

func Warnf(format string, args ...any) {
	if l := active(); l != nil {
		l.Warnf(format, args...)
	}
}

func Errorf(format string, args ...any) {
	if l := active(); l != nil {
		l.Errorf(format, args...)
	}
}

// FieldLogger attaches structured key-value fields to each message
type FieldLogger struct {
	fields map[string]interface{}
}

// WithFields returns a new logger with the specified fields
func WithFields(fields map[string]interface{}) *FieldLogger {
	return &FieldLogger{fields: fields}
}

func (fl *FieldLogger) with() *zap.SugaredLogger {
	l := active()
	if l == nil {
		return nil
	}
	keys := make([]string, 0, len(fl.fields))
	for k := range fl.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]interface{}, 0, len(keys)*2)
	for _, k := range keys {
		args = append(args, k, fl.fields[k])
	}
	return l.With(args...)
}

func (fl *FieldLogger) Debugf(format string, args ...any) {
	if l := fl.with(); l != nil {
		l.Debugf(format, args...)
	}
}

func (fl *FieldLogger) Infof(format string, args ...any) {
	if l := fl.with(); l != nil {
		l.Infof(format, args...)
	}
}

func (fl *FieldLogger) Warnf(format string, args ...any) {
	if l := fl.with(); l != nil {
		l.Warnf(format, args...)
	}
}

func (fl *FieldLogger) Errorf(format string, args ...any) {
	if l := fl.with(); l != nil {
		l.Errorf(format, args...)
	}
}
