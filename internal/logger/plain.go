package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// PlainLogger writes "LEVEL msg key=value ..." lines, one per call.
// It is the default for interactive runs.
type PlainLogger struct {
	state     *plainState
	fields    []any
	sanitizer *Sanitizer
}

type plainState struct {
	mu      sync.Mutex
	level   Level
	out     io.Writer
	writers []io.WriteCloser
}

// NewPlainLogger creates a plain logger
func NewPlainLogger(config Config) (*PlainLogger, error) {
	out, closeable, err := buildWriters(config)
	if err != nil {
		return nil, err
	}

	return &PlainLogger{
		state: &plainState{
			level:   config.Level,
			out:     out,
			writers: closeable,
		},
		sanitizer: newSanitizerFor(config),
	}, nil
}

func (l *PlainLogger) log(level Level, msg string, args []any) {
	l.state.mu.Lock()
	defer l.state.mu.Unlock()

	if level < l.state.level {
		return
	}

	var b strings.Builder
	b.WriteString(strings.ToUpper(level.String()))
	b.WriteByte(' ')
	b.WriteString(l.sanitizer.Sanitize(msg))
	writePairs(&b, l.fields)
	writePairs(&b, l.sanitizer.SanitizeArgs(args))
	b.WriteByte('\n')

	io.WriteString(l.state.out, b.String())
}

func writePairs(b *strings.Builder, args []any) {
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			fmt.Fprintf(b, " %v", args[i])
			break
		}
		fmt.Fprintf(b, " %v=%v", args[i], args[i+1])
	}
}

func (l *PlainLogger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args) }
func (l *PlainLogger) Info(msg string, args ...any)  { l.log(LevelInfo, msg, args) }
func (l *PlainLogger) Warn(msg string, args ...any)  { l.log(LevelWarn, msg, args) }
func (l *PlainLogger) Error(msg string, args ...any) { l.log(LevelError, msg, args) }

// With returns a child sharing output and level with extra fields
func (l *PlainLogger) With(args ...any) Logger {
	fields := make([]any, 0, len(l.fields)+len(args))
	fields = append(fields, l.fields...)
	fields = append(fields, l.sanitizer.SanitizeArgs(args)...)
	return &PlainLogger{
		state:     l.state,
		fields:    fields,
		sanitizer: l.sanitizer,
	}
}

// Sync is a no-op
func (l *PlainLogger) Sync() error {
	return nil
}

// Shutdown closes owned writers. Calling it on a child closes the shared writers too.
func (l *PlainLogger) Shutdown() error {
	l.state.mu.Lock()
	defer l.state.mu.Unlock()

	var lastErr error
	for _, w := range l.state.writers {
		if err := w.Close(); err != nil {
			lastErr = err
		}
	}
	l.state.writers = nil
	return lastErr
}
