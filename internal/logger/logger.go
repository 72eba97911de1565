// Package logger is the process-wide structured logger used by the CLI and the
// resolution packages. Log records go to stderr so that command results on
// stdout stay machine readable.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// OutputFormat selects the slog handler.
type OutputFormat string

const (
	// FormatText renders key=value records.
	FormatText OutputFormat = "text"
	// FormatJSON renders one JSON object per record.
	FormatJSON OutputFormat = "json"
)

var (
	// testOutput is used to capture log output during tests
	testOutput   io.Writer
	testOutputMu sync.Mutex

	logger *slog.Logger
)

// Fields is a set of structured attributes attached to a record.
type Fields map[string]interface{}

// SetTestOutput sets the output writer for testing purposes
func SetTestOutput(w io.Writer) {
	testOutputMu.Lock()
	defer testOutputMu.Unlock()
	testOutput = w
}

// UnsetTestOutput resets the test output to nil
func UnsetTestOutput() {
	testOutputMu.Lock()
	defer testOutputMu.Unlock()
	testOutput = nil
}

func getOutput() io.Writer {
	testOutputMu.Lock()
	defer testOutputMu.Unlock()
	if testOutput != nil {
		return testOutput
	}
	return os.Stderr
}

// ParseLevel maps debug, info, warn(ing) and error onto slog levels.
// Unknown names fall back to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// InitLogger (re)initializes the global logger.
func InitLogger(logLevel string, format OutputFormat) {
	opts := &slog.HandlerOptions{Level: ParseLevel(logLevel)}

	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(getOutput(), opts)
	} else {
		handler = slog.NewTextHandler(getOutput(), opts)
	}
	logger = slog.New(handler)
}

// GetLogger returns the configured logger instance.
func GetLogger() *slog.Logger {
	if logger == nil {
		InitLogger("info", FormatText)
	}
	return logger
}

// Debug logs a debug message.
func Debug(msg string, fields ...Fields) {
	GetLogger().Debug(msg, mergeFields(fields...)...)
}

// Debugf logs a formatted debug message.
func Debugf(format string, args ...interface{}) {
	GetLogger().Debug(fmt.Sprintf(format, args...))
}

// Info logs an info message.
func Info(msg string, fields ...Fields) {
	GetLogger().Info(msg, mergeFields(fields...)...)
}

// Infof logs a formatted info message.
func Infof(format string, args ...interface{}) {
	GetLogger().Info(fmt.Sprintf(format, args...))
}

// Warn logs a warning message.
func Warn(msg string, fields ...Fields) {
	GetLogger().Warn(msg, mergeFields(fields...)...)
}

// Warnf logs a formatted warning message.
func Warnf(format string, args ...interface{}) {
	GetLogger().Warn(fmt.Sprintf(format, args...))
}

// Error logs an error message.
func Error(msg string, fields ...Fields) {
	GetLogger().Error(msg, mergeFields(fields...)...)
}

// Errorf logs a formatted error message.
func Errorf(format string, args ...interface{}) {
	GetLogger().Error(fmt.Sprintf(format, args...))
}

// Success logs an info message tagged with status=success.
func Success(msg string, fields ...Fields) {
	attrs := append(mergeFields(fields...), "status", "success")
	GetLogger().Info(msg, attrs...)
}

// mergeFields flattens field maps into slog key-value pairs.
func mergeFields(fields ...Fields) []interface{} {
	result := []interface{}{}
	for _, field := range fields {
		for k, v := range field {
			result = append(result, k, v)
		}
	}
	return result
}
