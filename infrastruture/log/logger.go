// Package logger provides a small leveled logger that prefixes every line
// with a colored component name.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log"
)

// Color constants for logging
const (
	ColorRed     = "\033[31m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorBlue    = "\033[34m"
	ColorPurple  = "\033[35m"
	ColorCyan    = "\033[36m"
	ColorReset   = "\033[0m"
	LogInfoColor = ColorGreen
)

var (
	ErrMissingName   = errors.New("logger name is required")
	ErrMissingWriter = errors.New("logger writer is required")
)

// Logger writes "[NAME] [LEVEL] message" lines.
type Logger struct {
	name   string
	color  string
	logger *log.Logger
}

// New creates a logger for the named component.
func New(name, color string, w io.Writer) (*Logger, error) {
	if name == "" {
		return nil, ErrMissingName
	}
	if w == nil {
		return nil, ErrMissingWriter
	}

	return &Logger{
		name:   name,
		color:  color,
		logger: log.New(w, "", log.LstdFlags),
	}, nil
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{name: "DISCARD", logger: log.New(io.Discard, "", 0)}
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.print(LogInfoColor, "INFO", msg)
}

// Warning logs a recoverable problem.
func (l *Logger) Warning(msg string) {
	l.print(ColorYellow, "WARNING", msg)
}

// Error logs a failure.
func (l *Logger) Error(msg string) {
	l.print(ColorRed, "ERROR", msg)
}

func (l *Logger) print(levelColor, level, msg string) {
	l.logger.Println(fmt.Sprintf("%s[%s]%s %s[%s]%s %s", l.color, l.name, ColorReset, levelColor, level, ColorReset, msg))
}
