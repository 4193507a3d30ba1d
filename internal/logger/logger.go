// Package logger is the process-wide structured logger.
//
// It writes human-readable lines to stderr and, when a log file is
// configured, JSON lines to a size-rotated file.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
	Level(zerolog.InfoLevel).
	With().Timestamp().Logger()

// Config controls level and sinks.
type Config struct {
	Level      string // trace, debug, info, warn, error
	File       string // optional rotating log file
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Init replaces the package logger. Call once at startup.
func Init(cfg Config) error {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}}
	if cfg.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    orDefault(cfg.MaxSizeMB, 100),
			MaxBackups: orDefault(cfg.MaxBackups, 3),
			MaxAge:     orDefault(cfg.MaxAgeDays, 28),
			Compress:   true,
		})
	}

	logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().Logger()
	return nil
}

// SetOutput redirects all log output to w. Used by tests and by callers that
// embed the engine and collect its logs.
func SetOutput(w io.Writer) {
	logger = logger.Output(w)
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func Debugf(format string, v ...any) {
	logger.Debug().Msgf(format, v...)
}

func Infof(format string, v ...any) {
	logger.Info().Msgf(format, v...)
}

func Warnf(format string, v ...any) {
	logger.Warn().Msgf(format, v...)
}

func Errorf(format string, v ...any) {
	logger.Error().Msgf(format, v...)
}

// Fatal logs and exits with status 1.
func Fatal(v ...any) {
	logger.Fatal().Msg(fmt.Sprint(v...))
}
