// Package logger defines the leveled logger that every snapfleet component
// receives through its builder. There is no package-level default logger;
// components that are built without one get the nop logger.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Logger is the interface shared by all snapfleet components.
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)

	// WithPrefix returns a logger with the same configuration that
	// prepends the given prefix to every message. Used to tag per-board
	// log lines with the board's host.
	WithPrefix(prefix string) Logger
}

// Log levels, in decreasing severity.
const (
	LevelError = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// ParseLevel converts a level name to a level constant. Unknown names map
// to LevelInfo.
func ParseLevel(name string) int {
	switch name {
	case "debug", "DEBUG":
		return LevelDebug
	case "warn", "WARNING", "warning":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// Nop is a logger that discards everything.
var Nop Logger = &nopLogger{}

type nopLogger struct{}

func (n *nopLogger) Debugf(format string, v ...any) {}
func (n *nopLogger) Infof(format string, v ...any)  {}
func (n *nopLogger) Warnf(format string, v ...any)  {}
func (n *nopLogger) Errorf(format string, v ...any) {}
func (n *nopLogger) WithPrefix(prefix string) Logger {
	return n
}

// standardLogger writes leveled, timestamped lines to a single writer.
type standardLogger struct {
	mu     *sync.Mutex
	out    *log.Logger
	level  int
	prefix string
}

// NewStandardLogger returns a Logger writing to w at the given level.
func NewStandardLogger(w io.Writer, level int) Logger {
	return &standardLogger{
		mu:    &sync.Mutex{},
		out:   log.New(w, "", log.LstdFlags|log.Lmicroseconds),
		level: level,
	}
}

// Stderr is a convenience logger at info level.
func Stderr() Logger {
	return NewStandardLogger(os.Stderr, LevelInfo)
}

func (l *standardLogger) logf(level int, tag, format string, v ...any) {
	if level > l.level {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Printf("%s %s%s", tag, l.prefix, fmt.Sprintf(format, v...))
}

func (l *standardLogger) Debugf(format string, v ...any) {
	l.logf(LevelDebug, "DEBUG", format, v...)
}

func (l *standardLogger) Infof(format string, v ...any) {
	l.logf(LevelInfo, "INFO ", format, v...)
}

func (l *standardLogger) Warnf(format string, v ...any) {
	l.logf(LevelWarn, "WARN ", format, v...)
}

func (l *standardLogger) Errorf(format string, v ...any) {
	l.logf(LevelError, "ERROR", format, v...)
}

func (l *standardLogger) WithPrefix(prefix string) Logger {
	return &standardLogger{
		mu:     l.mu,
		out:    l.out,
		level:  l.level,
		prefix: l.prefix + prefix,
	}
}
