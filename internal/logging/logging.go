// File: internal/logging/logging.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// phuslu/log construction shared by the library and the CLI. Components get a
// module logger; the CLI replaces the root writer and level from config.

package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/phuslu/log"
)

// Options selects level, output format and destination.
type Options struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console, logfmt, json
	Writer string `mapstructure:"writer"` // stderr, stdout
}

var (
	mu   sync.RWMutex
	root = log.Logger{
		Level:  log.WarnLevel,
		Writer: &log.ConsoleWriter{Writer: os.Stderr, EndWithMessage: true},
	}
)

// ParseLevel converts a level name to log.Level.
func ParseLevel(s string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return log.TraceLevel, nil
	case "debug":
		return log.DebugLevel, nil
	case "info", "":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	case "fatal":
		return log.FatalLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("invalid log level: %q", s)
	}
}

// New builds a logger from opts.
func New(opts Options) (log.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return log.Logger{}, err
	}

	var out io.Writer
	switch strings.ToLower(opts.Writer) {
	case "stdout":
		out = os.Stdout
	case "stderr", "":
		out = os.Stderr
	default:
		return log.Logger{}, fmt.Errorf("invalid log writer: %q", opts.Writer)
	}

	var w log.Writer
	switch strings.ToLower(opts.Format) {
	case "json":
		w = &log.IOWriter{Writer: out}
	case "logfmt":
		w = &log.ConsoleWriter{
			Writer:    out,
			Formatter: log.LogfmtFormatter{TimeField: "time"}.Formatter,
		}
	case "console", "":
		w = &log.ConsoleWriter{Writer: out, EndWithMessage: true}
	default:
		return log.Logger{}, fmt.Errorf("invalid log format: %q", opts.Format)
	}

	return log.Logger{Level: level, Writer: w}, nil
}

// SetRoot replaces the logger module loggers derive from.
func SetRoot(l log.Logger) {
	mu.Lock()
	root = l
	mu.Unlock()
}

// Module returns the root logger tagged with module=name.
func Module(name string) log.Logger {
	mu.RLock()
	l := root
	mu.RUnlock()
	l.Context = log.NewContext(nil).Str("module", name).Value()
	return l
}
