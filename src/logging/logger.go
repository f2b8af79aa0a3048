package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// Level is a log severity. Lines below the current level are dropped.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelTags = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return fmt.Sprintf("Level(%d)", int32(l))
	}
	return levelTags[l]
}

// ParseLevel accepts debug, info, warn (or warning) and error in any case.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	}
	return LevelInfo, false
}

var (
	level atomic.Int32 // zero is LevelDebug; init raises it to info
	std   = log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lmicroseconds)
)

func init() { level.Store(int32(LevelInfo)) }

// SetLogLevel switches the global level by name. Unknown names leave it unchanged.
func SetLogLevel(name string) {
	if l, ok := ParseLevel(name); ok {
		level.Store(int32(l))
	}
}

func GetLogLevel() Level { return Level(level.Load()) }

// SetOutput redirects all log lines to w.
func SetOutput(w io.Writer) { std.SetOutput(w) }

// OpenLogFile appends log lines to path in addition to stderr. Closing the result
// goes back to stderr only.
func OpenLogFile(path string) (io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	SetOutput(io.MultiWriter(os.Stderr, f))
	return closerFunc(func() error {
		SetOutput(os.Stderr)
		return f.Close()
	}), nil
}

type closerFunc func() error

func (c closerFunc) Close() error { return c() }

func emit(l Level, format string, args []interface{}) {
	if l < GetLogLevel() {
		return
	}
	msg := format
	// a message without args may carry a literal %
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	std.Printf("[%s] %s", l, msg)
}

func Debugf(format string, a ...interface{}) { emit(LevelDebug, format, a) }
func Infof(format string, a ...interface{})  { emit(LevelInfo, format, a) }
func Warnf(format string, a ...interface{})  { emit(LevelWarn, format, a) }
func Errorf(format string, a ...interface{}) { emit(LevelError, format, a) }

// TimeTrack is meant for defer: it logs how long the phase since start took.
func TimeTrack(start time.Time, label string) {
	Debugf("%s took %s", label, time.Since(start))
}
