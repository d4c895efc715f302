// Package logging provides the leveled logger used by the command line hosts.
package logging

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/san-kum/verletsim/internal/dynamo"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel is case-insensitive and falls back to info.
func ParseLevel(level string) Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger writes "[LEVEL] message" lines through the standard log package.
type Logger struct {
	level Level
	out   *log.Logger
}

var _ dynamo.Logger = (*Logger)(nil)

func New(w io.Writer, level string) *Logger {
	return &Logger{
		level: ParseLevel(level),
		out:   log.New(w, "", log.LstdFlags),
	}
}

func (l *Logger) Level() Level { return l.level }

func (l *Logger) enabled(level Level) bool { return level >= l.level }

func (l *Logger) logf(level Level, format string, v ...any) {
	if !l.enabled(level) {
		return
	}
	l.out.Print("[" + strings.ToUpper(level.String()) + "] " + fmt.Sprintf(format, v...))
}

func (l *Logger) Debugf(format string, v ...any) { l.logf(LevelDebug, format, v...) }
func (l *Logger) Infof(format string, v ...any)  { l.logf(LevelInfo, format, v...) }
func (l *Logger) Warnf(format string, v ...any)  { l.logf(LevelWarn, format, v...) }
func (l *Logger) Errorf(format string, v ...any) { l.logf(LevelError, format, v...) }
