// Package logger provides verbose logging for the orson-assets CLI.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr to help users follow each slot through the pipeline.
// Errors are always printed.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu      sync.RWMutex
	verbose bool
	jsonOut bool
	output  io.Writer = os.Stderr
	log               = build()

	// writeMu serialises writes across logger rebuilds.
	writeMu sync.Mutex
)

type lockedWriter struct{ w io.Writer }

func (l lockedWriter) Write(p []byte) (int, error) {
	writeMu.Lock()
	defer writeMu.Unlock()
	return l.w.Write(p)
}

// build must be called with mu held for writing (or during init).
func build() zerolog.Logger {
	var w io.Writer = lockedWriter{w: output}
	if !jsonOut {
		w = zerolog.ConsoleWriter{
			Out:          lockedWriter{w: output},
			NoColor:      true,
			PartsExclude: []string{zerolog.TimestampFieldName},
		}
	}
	l := zerolog.New(w)
	if jsonOut {
		l = l.With().Timestamp().Logger()
	}
	if verbose {
		return l.Level(zerolog.DebugLevel)
	}
	return l.Level(zerolog.ErrorLevel)
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	log = build()
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	log = build()
}

// SetJSON switches between human-readable lines and JSON lines.
func SetJSON(v bool) {
	mu.Lock()
	defer mu.Unlock()
	jsonOut = v
	log = build()
}

// L returns the current structured logger.
func L() *zerolog.Logger {
	mu.RLock()
	l := log
	mu.RUnlock()
	return &l
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	L().Debug().Msgf(format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	L().Info().Msgf(format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	L().Warn().Msgf(format, args...)
}

// Error prints an error message regardless of verbosity.
func Error(format string, args ...any) {
	L().Error().Msgf(format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	v, j, l, out := verbose, jsonOut, log, output
	mu.RUnlock()
	if !v {
		return
	}
	if j {
		l.Info().Str("section", name).Send()
		return
	}
	fmt.Fprintf(lockedWriter{w: out}, "\n=== %s ===\n", name)
}
