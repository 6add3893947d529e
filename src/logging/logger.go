// Package logging is a level-filtered wrapper around the standard logger shared
// by the library packages and binaries.
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

// LogLevel represents severity.
type LogLevel int32

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var prefixes = [...]string{LevelDebug: "DEBUG", LevelInfo: "INFO", LevelWarn: "WARN", LevelError: "ERROR"}

func (l LogLevel) String() string {
	if l < LevelDebug || l > LevelError {
		return fmt.Sprintf("LogLevel(%d)", int32(l))
	}
	return prefixes[l]
}

// ParseLevel accepts debug, info, warn (or warning) and error in any case.
func ParseLevel(s string) (LogLevel, bool) {
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
	currentLevel = int32(LevelInfo)
	out          atomic.Pointer[log.Logger]
)

func init() {
	out.Store(log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lmicroseconds))
}

// SetLogLevel sets the global level. Unknown names leave it unchanged.
func SetLogLevel(s string) {
	if l, ok := ParseLevel(s); ok {
		atomic.StoreInt32(&currentLevel, int32(l))
	}
}

// ValidLevel reports whether s names a known level.
func ValidLevel(s string) bool {
	_, ok := ParseLevel(s)
	return ok
}

// GetLogLevel returns the global level.
func GetLogLevel() LogLevel { return LogLevel(atomic.LoadInt32(&currentLevel)) }

// Enabled reports whether messages at l are currently written.
func Enabled(l LogLevel) bool { return l >= GetLogLevel() }

// SetOutput redirects log lines to w without timestamps and returns a function
// restoring the previous logger.
func SetOutput(w io.Writer) (restore func()) {
	prev := out.Swap(log.New(w, "", 0))
	return func() { out.Store(prev) }
}

func logf(l LogLevel, format string, args ...interface{}) {
	if !Enabled(l) {
		return
	}
	msg := format
	// Column names like "Rel Hum (%)" reach messages pre-formatted; only run
	// fmt when there is something to substitute.
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	out.Load().Printf("[%s] %s", l, msg)
}

func Debugf(format string, a ...interface{}) { logf(LevelDebug, format, a...) }
func Infof(format string, a ...interface{})  { logf(LevelInfo, format, a...) }
func Warnf(format string, a ...interface{})  { logf(LevelWarn, format, a...) }
func Errorf(format string, a ...interface{}) { logf(LevelError, format, a...) }

// TimeTrack logs the duration of a phase at debug level; use with defer.
func TimeTrack(start time.Time, label string) {
	if Enabled(LevelDebug) {
		Debugf("%s took %s", label, time.Since(start).Round(time.Microsecond))
	}
}
