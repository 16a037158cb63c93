package domain

import (
	"fmt"
	"log"

	"github.com/fatih/color"
)

// Logger defines the contract for logging operations with different severity levels.
type Logger interface {
	// Info logs an informational message with optional formatted arguments.
	Info(msg string, args ...interface{})
	// Error logs an error message with optional formatted arguments.
	Error(msg string, args ...interface{})
}

var (
	infoLabel  = color.New(color.FgCyan).SprintFunc()
	errorLabel = color.New(color.FgRed, color.Bold).SprintFunc()
)

// StdLogger implements the Logger interface using Go's standard log package.
// Level labels are colorized unless color.NoColor is set.
type StdLogger struct {
	logger *log.Logger
}

// Info logs an informational message with INFO prefix using the underlying standard logger.
func (l *StdLogger) Info(msg string, args ...interface{}) {
	l.logger.Printf("%s: %s", infoLabel("INFO"), fmt.Sprintf(msg, args...))
}

// Error logs an error message with ERROR prefix using the underlying standard logger.
func (l *StdLogger) Error(msg string, args ...interface{}) {
	l.logger.Printf("%s: %s", errorLabel("ERROR"), fmt.Sprintf(msg, args...))
}

// NewStdLogger creates a new StdLogger instance wrapping the provided standard logger.
func NewStdLogger(l *log.Logger) *StdLogger {
	return &StdLogger{l}
}
