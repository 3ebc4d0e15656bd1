// Package logging configures the global zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options select the log level, output format and an optional rotated file.
type Options struct {
	Level string
	// Format is "console", "json" or "auto" (console on a terminal).
	Format string
	File   string
}

// Setup installs the global logger writing to out, and additionally to
// File when set. The returned closer flushes the file writer.
func Setup(out *os.File, opts Options) (io.Closer, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		return nil, fmt.Errorf("invalid log level %q", opts.Level)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(level)

	var w io.Writer = out
	if useConsole(out, opts.Format) {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		rotated := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
		w = zerolog.MultiLevelWriter(w, rotated)
		closer = rotated
	}

	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	return closer, nil
}

func useConsole(out *os.File, format string) bool {
	switch format {
	case "console":
		return true
	case "json":
		return false
	default:
		return isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
