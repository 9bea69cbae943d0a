package logging

import (
	"fmt"
	"io"
	"log"
	"strings"
)

// Level represents logging severity.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

var (
	currentLevel     = LevelWarn
	currentVerbosity = 0
	logger           = log.New(log.Writer(), "wpvolume: ", log.LstdFlags|log.Lmsgprefix)
)

// SetOutput redirects log lines, e.g. away from a bar that reads stdout.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// SetVerbosity configures logger output from count of -v flags (0-4).
// -v shows sink switches, -vv every wpctl invocation, -vvv its output.
func SetVerbosity(count int) {
	if count < 0 {
		count = 0
	}
	if count > 4 {
		count = 4
	}
	currentVerbosity = count
	switch count {
	case 0:
		currentLevel = LevelWarn
	case 1:
		currentLevel = LevelInfo
	case 2:
		currentLevel = LevelDebug
	default:
		currentLevel = LevelTrace
	}
}

// Verbosity returns the stored -v count.
func Verbosity() int {
	return currentVerbosity
}

// LevelName returns current level label.
func LevelName() string {
	return currentLevel.String()
}

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	case LevelTrace:
		return "trace"
	default:
		return "unknown"
	}
}

// ParseLevel returns Level + verbosity count from string.
func ParseLevel(s string) (Level, int, error) {
	switch strings.ToLower(s) {
	case "error":
		return LevelError, 0, nil
	case "warn", "warning":
		return LevelWarn, 0, nil
	case "info":
		return LevelInfo, 1, nil
	case "debug":
		return LevelDebug, 2, nil
	case "trace":
		return LevelTrace, 4, nil
	default:
		return LevelWarn, currentVerbosity, fmt.Errorf("unknown level %s", s)
	}
}

func logf(l Level, prefix, format string, args ...any) {
	if l > currentLevel {
		return
	}
	logger.Printf("[%s] %s", prefix, fmt.Sprintf(format, args...))
}

// Errorf always prints.
func Errorf(format string, args ...any) {
	logf(LevelError, "ERR", format, args...)
}

func Warnf(format string, args ...any) {
	logf(LevelWarn, "WARN", format, args...)
}

func Infof(format string, args ...any) {
	logf(LevelInfo, "INFO", format, args...)
}

func Debugf(format string, args ...any) {
	logf(LevelDebug, "DBG", format, args...)
}

func Tracef(format string, args ...any) {
	logf(LevelTrace, "TRC", format, args...)
}
