package vm

import (
	"fmt"
	"io"
	"os"
)

// Logger receives diagnostics for execution faults: a corrupted program
// never stops the process, it logs one line here and the search reports
// no match.
type Logger struct {
	enabled bool
	out     io.Writer
}

// NewLogger creates a new logger instance.
func NewLogger(enabled bool) *Logger {
	return &Logger{
		enabled: enabled,
		out:     os.Stderr,
	}
}

// SetOutput sets the output writer for the logger.
func (l *Logger) SetOutput(w io.Writer) {
	l.out = w
}

// Log prints a formatted message if the logger is enabled.
func (l *Logger) Log(format string, args ...interface{}) {
	if l.enabled {
		fmt.Fprintf(l.out, "[regex] "+format+"\n", args...)
	}
}

// Enabled returns whether the logger is enabled.
func (l *Logger) Enabled() bool {
	return l.enabled
}

// defaultLogger backs programs whose configuration names no logger.
// Faults are worth a line on stderr even without explicit setup.
var defaultLogger = NewLogger(true)
