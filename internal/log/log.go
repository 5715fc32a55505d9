// Package log provides context-aware logging for cspace.
//
// Leveled messages go through logrus with a formatter that renders the
// [INFO], [WARNING], [ERROR] and [DEBUG] prefixes. Raw output (Printf,
// Println, command traces) bypasses the level machinery but still honors
// quiet mode.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/colorprofile"
	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

// Logger writes leveled diagnostics and verbose command traces to stderr.
type Logger struct {
	out     io.Writer
	entry   *logrus.Logger
	verbose bool
	quiet   bool
}

// New creates a logger writing to out. Quiet wins over verbose.
func New(out io.Writer, verbose, quiet bool) *Logger {
	l := logrus.New()
	l.SetOutput(colorprofile.NewWriter(out, os.Environ()))
	l.SetFormatter(&prefixFormatter{})
	switch {
	case quiet:
		l.SetLevel(logrus.ErrorLevel)
	case verbose:
		l.SetLevel(logrus.DebugLevel)
	default:
		l.SetLevel(logrus.InfoLevel)
	}
	return &Logger{out: out, entry: l, verbose: verbose && !quiet, quiet: quiet}
}

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves the logger from context.
// Returns a logger writing to io.Discard if none is attached.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return New(io.Discard, false, false)
}

// Infof logs a progress message.
func (l *Logger) Infof(format string, args ...any) {
	l.entry.Infof(format, args...)
}

// Warnf logs a recoverable problem.
func (l *Logger) Warnf(format string, args ...any) {
	l.entry.Warnf(format, args...)
}

// Errorf logs a failure. Errors are shown even in quiet mode.
func (l *Logger) Errorf(format string, args ...any) {
	l.entry.Errorf(format, args...)
}

// Debug logs a message with key-value pairs in verbose mode.
// A trailing key without a value is dropped.
func (l *Logger) Debug(msg string, keyvals ...any) {
	if !l.verbose {
		return
	}
	fields := logrus.Fields{}
	for i := 0; i+1 < len(keyvals); i += 2 {
		fields[fmt.Sprint(keyvals[i])] = keyvals[i+1]
	}
	l.entry.WithFields(fields).Debug(msg)
}

// Printf writes formatted output without a prefix.
func (l *Logger) Printf(format string, args ...any) {
	if l.quiet {
		return
	}
	fmt.Fprintf(l.out, format, args...)
}

// Println writes a line of output without a prefix.
func (l *Logger) Println(args ...any) {
	if l.quiet {
		return
	}
	fmt.Fprintln(l.out, args...)
}

// Command traces an external command in verbose mode. The returned func
// records how long it took.
func (l *Logger) Command(dir, name string, args ...string) func(time.Duration) {
	if !l.verbose {
		return func(time.Duration) {}
	}
	line := "$ " + strings.Join(append([]string{name}, args...), " ")
	if dir != "" {
		line = "[" + dir + "] " + line
	}
	return func(d time.Duration) {
		fmt.Fprintf(l.out, "%s (%s)\n", line, d.Round(time.Millisecond))
	}
}

// IsVerbose reports whether command tracing and debug output are enabled.
func (l *Logger) IsVerbose() bool {
	return l.verbose
}

// IsQuiet reports whether only errors are shown.
func (l *Logger) IsQuiet() bool {
	return l.quiet
}

// Writer returns the underlying writer.
func (l *Logger) Writer() io.Writer {
	return l.out
}
