// ABOUTME: Structured logger construction for mood using zerolog.
// ABOUTME: Writes JSON lines to a lumberjack-rotated file, optionally mirrored to stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/2389-research/mood/internal/config"
)

// Options configure where log output goes.
type Options struct {
	// Path of the rotated log file. Empty disables the file sink.
	Path string
	// Console mirrors log lines to Console in human-readable form.
	Console io.Writer
}

// Logger bundles a zerolog.Logger with the file sink it writes to.
type Logger struct {
	zerolog.Logger
	file *lumberjack.Logger
}

// New builds a logger from the log section of the config.
func New(cfg config.LogConfig, opts Options) (*Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var writers []io.Writer
	var file *lumberjack.Logger
	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0750); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file = &lumberjack.Logger{
			Filename:   opts.Path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
		writers = append(writers, file)
	}
	if opts.Console != nil {
		writers = append(writers, zerolog.ConsoleWriter{Out: opts.Console, TimeFormat: time.Kitchen})
	}

	var out io.Writer = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		out = writers[0]
	default:
		out = zerolog.MultiLevelWriter(writers...)
	}

	zl := zerolog.New(out).Level(level).With().Timestamp().Str("app", "mood").Logger()
	return &Logger{Logger: zl, file: file}, nil
}

// Close flushes and closes the file sink.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// ParseLevel maps a config level name to a zerolog level.
func ParseLevel(s string) (zerolog.Level, error) {
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
