// Package logger provides the process-wide structured logger.
package logger

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	logger *log.Logger

	initLoggerOnce sync.Once
)

// InitLogger initializes the default logger on stderr at info level.
func InitLogger() {
	initLoggerOnce.Do(func() {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "depend",
		})
		logger.SetLevel(log.InfoLevel)
	})
}

func ensureInitialized() {
	InitLogger()
}

// SetLevel sets the logging level.
func SetLevel(level log.Level) {
	ensureInitialized()
	logger.SetLevel(level)
}

// SetDebug toggles debug logging.
func SetDebug(debug bool) {
	ensureInitialized()
	if debug {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}
}

// Info logs an info message.
func Info(msg string, keyvals ...any) {
	ensureInitialized()
	logger.Info(msg, keyvals...)
}

// Debug logs a debug message.
func Debug(msg string, keyvals ...any) {
	ensureInitialized()
	logger.Debug(msg, keyvals...)
}

// Warn logs a warning message.
func Warn(msg string, keyvals ...any) {
	ensureInitialized()
	logger.Warn(msg, keyvals...)
}

// Error logs an error message.
func Error(msg string, keyvals ...any) {
	ensureInitialized()
	logger.Error(msg, keyvals...)
}

// With returns a child logger carrying the given key-value pairs.
func With(keyvals ...any) *log.Logger {
	ensureInitialized()
	return logger.With(keyvals...)
}

// SetOutput redirects log output.
func SetOutput(w io.Writer) {
	ensureInitialized()
	logger.SetOutput(w)
}

// Disable discards all log output.
func Disable() {
	SetOutput(io.Discard)
}

// Enable restores log output to stderr.
func Enable() {
	SetOutput(os.Stderr)
}
