// Package diag prints gofind's runtime diagnostics: non-fatal warnings from
// the walk, fatal usage errors, and the traces enabled by -D. Output goes to
// one writer, normally stderr.
//
// Color output is automatically enabled when the writer is a TTY and the
// NO_COLOR convention does not forbid it.
package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Logger writes program-prefixed diagnostic lines. It is not safe for
// concurrent use; gofind is single-threaded.
type Logger struct {
	writer      io.Writer
	program     string
	colorOutput bool
}

// New creates a Logger writing to w. If w is nil, messages are silently
// discarded.
func New(w io.Writer) *Logger {
	return &Logger{
		writer:      w,
		program:     "gofind",
		colorOutput: isTerminal(w),
	}
}

// isTerminal checks if the writer is a terminal that supports colors.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Warnf reports a recoverable problem. Format:
// "gofind: warning: <message>".
func (l *Logger) Warnf(format string, args ...any) {
	l.emit(color.FgYellow, "warning:", format, args...)
}

// Errorf reports a fatal problem. Format: "gofind: error: <message>".
func (l *Logger) Errorf(format string, args ...any) {
	l.emit(color.FgRed, "error:", format, args...)
}

// Debugf reports a -D trace line for the named topic. The caller gates on
// the topic being enabled. Format: "gofind: debug(<topic>): <message>".
func (l *Logger) Debugf(topic, format string, args ...any) {
	l.emit(color.FgCyan, "debug("+topic+"):", format, args...)
}

// emit writes one prefixed line, colorizing the label when the writer is a
// terminal.
func (l *Logger) emit(attr color.Attribute, label, format string, args ...any) {
	if l.writer == nil {
		return
	}

	if l.colorOutput {
		label = color.New(attr).Sprint(label)
	}
	message := fmt.Sprintf(format, args...)
	fmt.Fprintf(l.writer, "%s: %s %s\n", l.program, label, message)
}
