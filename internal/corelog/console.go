// Package corelog provides the planning core's structured console
// logger. Grounded directly on the teacher's internal/logger.ConsoleLogger:
// a mutex-guarded writer, "[HH:MM:SS] [LEVEL] message" formatting, ANSI
// color via fatih/color gated on isatty detection, and one dedicated
// method per notable event family instead of a generic structured-field
// API.
package corelog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

const (
	levelTrace int = iota
	levelDebug
	levelInfo
	levelWarn
	levelError
)

// Logger logs planning-core activity to a writer with timestamps and
// level filtering. Safe for concurrent use.
type Logger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// New constructs a Logger writing to writer at the given minimum level
// (trace/debug/info/warn/error, case-insensitive; invalid or empty
// defaults to info). Color is enabled automatically when writer is
// os.Stdout/os.Stderr and that stream is a TTY.
func New(writer io.Writer, logLevel string) *Logger {
	return &Logger{
		writer:      writer,
		logLevel:    normalizeLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

func isTerminal(w io.Writer) bool {
	if w == os.Stdout {
		return isatty.IsTerminal(os.Stdout.Fd())
	}
	if w == os.Stderr {
		return isatty.IsTerminal(os.Stderr.Fd())
	}
	return false
}

func normalizeLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	default:
		return "info"
	}
}

func levelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func (l *Logger) shouldLog(level string) bool {
	return levelToInt(level) >= levelToInt(l.logLevel)
}

func timestamp() string {
	return time.Now().Format("15:04:05")
}

func (l *Logger) logWithLevel(level, message string) {
	if l.writer == nil || !l.shouldLog(strings.ToLower(level)) {
		return
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	ts := timestamp()
	var line string
	if l.colorOutput {
		line = l.formatWithColor(ts, level, message)
	} else {
		line = fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)
	}
	l.writer.Write([]byte(line))
}

func (l *Logger) formatWithColor(ts, level, message string) string {
	var coloredLevel string
	switch level {
	case "TRACE":
		coloredLevel = color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		coloredLevel = color.New(color.FgCyan).Sprint(level)
	case "INFO":
		coloredLevel = color.New(color.FgBlue).Sprint(level)
	case "WARN":
		coloredLevel = color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		coloredLevel = color.New(color.FgRed).Sprint(level)
	default:
		coloredLevel = level
	}
	return fmt.Sprintf("[%s] [%s] %s\n", ts, coloredLevel, message)
}

// Trace logs a trace-level message.
func (l *Logger) Trace(message string) { l.logWithLevel("TRACE", message) }

// Debug logs a debug-level message.
func (l *Logger) Debug(message string) { l.logWithLevel("DEBUG", message) }

// Info logs an info-level message.
func (l *Logger) Info(message string) { l.logWithLevel("INFO", message) }

// Warn logs a warning-level message.
func (l *Logger) Warn(message string) { l.logWithLevel("WARN", message) }

// Error logs an error-level message.
func (l *Logger) Error(message string) { l.logWithLevel("ERROR", message) }

// Infof logs a formatted info-level message.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// Warnf logs a formatted warning-level message.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.Warn(fmt.Sprintf(format, args...))
}

// Errorf logs a formatted error-level message.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}
