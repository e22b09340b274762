// Package debug provides conditional debug logging for roadmap.
//
// Debug logging is enabled by setting the ROADMAP_DEBUG environment variable:
//
//	ROADMAP_DEBUG=1 roadmap check
//
// The viewer owns the terminal, so set ROADMAP_DEBUG_FILE to send the log
// somewhere else:
//
//	ROADMAP_DEBUG=1 ROADMAP_DEBUG_FILE=/tmp/roadmap.log roadmap view
//
// When disabled (default), all debug functions are no-ops.
package debug

import (
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.RWMutex
	enabled bool
	logger  *zap.SugaredLogger
)

func init() {
	if os.Getenv("ROADMAP_DEBUG") != "" {
		SetEnabled(true)
	}
}

func newLogger() *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000000")
	cfg.OutputPaths = []string{"stderr"}
	if path := os.Getenv("ROADMAP_DEBUG_FILE"); path != "" {
		cfg.OutputPaths = []string{path}
	}
	l, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "debug: %v\n", err)
		return zap.NewNop().Sugar()
	}
	return l.Named("roadmap").Sugar()
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetEnabled allows programmatic control of debug logging.
func SetEnabled(e bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = e
	if e && logger == nil {
		logger = newLogger()
	}
}

// SetLogger replaces the backing logger. Tests use it with zaptest/observer.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		logger = nil
		return
	}
	logger = l.Sugar()
}

func active() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	if !enabled {
		return nil
	}
	return logger
}

// Log writes a debug message if debug logging is enabled.
// Uses printf-style formatting.
func Log(format string, args ...any) {
	if l := active(); l != nil {
		l.Debugf(format, args...)
	}
}

// LogTiming writes a timing message if debug logging is enabled.
func LogTiming(name string, d time.Duration) {
	if l := active(); l != nil {
		l.Debugw("timing", "name", name, "elapsed", d)
	}
}

// LogIf writes a debug message only if the condition is true.
func LogIf(cond bool, format string, args ...any) {
	if !cond {
		return
	}
	Log(format, args...)
}

// LogEnterExit logs function entry and exit with timing.
//
//	func myFunc() {
//	    defer debug.LogEnterExit("myFunc")()
//	}
func LogEnterExit(name string) func() {
	l := active()
	if l == nil {
		return func() {}
	}
	l.Debugf("-> %s", name)
	start := time.Now()
	return func() {
		l.Debugf("<- %s (%v)", name, time.Since(start))
	}
}

// Dump logs a value with its type for debugging complex structures.
func Dump(name string, v any) {
	if l := active(); l != nil {
		l.Debugf("%s: %T = %+v", name, v, v)
	}
}

// Section logs a section header for visual organization in debug output.
func Section(name string) {
	if l := active(); l != nil {
		l.Debugf("=== %s ===", name)
	}
}

// Sync flushes buffered log entries.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	if logger != nil {
		_ = logger.Sync()
	}
}
