/*
Package logx sets up the global zerolog logger for the client.

The terminal belongs to the TUI, so logs are written to a file. Init picks
the level and format; the helpers below keep call sites short.
*/
package logx

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options controls Init.
type Options struct {
	// Level is a zerolog level name ("debug", "info", ...). Empty means info.
	Level string
	// Path is the log file. Empty discards all output.
	Path string
	// Pretty switches from JSON lines to zerolog's console format.
	Pretty bool
}

// Init configures log.Logger and returns a function that closes the log file.
func Init(opts Options) (func() error, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	var out io.Writer = io.Discard
	closer := func() error { return nil }
	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o700); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		file, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out = file
		closer = file.Close
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, NoColor: true, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(out).Level(level).With().Timestamp().Caller().Logger()
	return closer, nil
}

// Logger returns the global logger.
func Logger() *zerolog.Logger {
	return &log.Logger
}

// With returns a child of the global logger carrying one extra string field.
func With(key, value string) zerolog.Logger {
	return log.Logger.With().Str(key, value).Logger()
}
