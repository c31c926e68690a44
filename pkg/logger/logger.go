// Package logger provides a simple leveled logging interface backed by zerolog.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger defines the logging interface
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})
	Info(v ...interface{})
	Infof(format string, v ...interface{})
	Warn(v ...interface{})
	Warnf(format string, v ...interface{})
	Error(v ...interface{})
	Errorf(format string, v ...interface{})
	Fatal(v ...interface{})
	Fatalf(format string, v ...interface{})
}

// Options configures a logger. Zero values fall back to LOG_* environment
// variables and then to info-level console output on stdout.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // console or json
	File   string // optional path, rotated with lumberjack
	Output io.Writer
}

const (
	logFileMaxSizeMB  = 50
	logFileMaxBackups = 3
	logFileMaxAgeDays = 14
)

// logger implements the Logger interface
type logger struct {
	zl zerolog.Logger
}

// New creates a new logger instance configured from the environment
func New() Logger {
	return NewWithOptions(Options{})
}

// NewWithOptions creates a logger from explicit options.
func NewWithOptions(opts Options) Logger {
	if opts.Level == "" {
		opts.Level = os.Getenv("LOG_LEVEL")
	}
	if opts.Format == "" {
		opts.Format = os.Getenv("LOG_FORMAT")
	}
	if opts.File == "" {
		opts.File = os.Getenv("LOG_FILE")
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if !strings.EqualFold(opts.Format, "json") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	if opts.File != "" {
		out = zerolog.MultiLevelWriter(out, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    logFileMaxSizeMB,
			MaxBackups: logFileMaxBackups,
			MaxAge:     logFileMaxAgeDays,
		})
	}

	zl := zerolog.New(out).Level(parseLevel(opts.Level)).With().Timestamp().Logger()
	return &logger{zl: zl}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return &logger{zl: zerolog.Nop()}
}

// parseLevel converts string log level to a zerolog level
func parseLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ValidLevel reports whether levelStr names a level this package understands.
func ValidLevel(levelStr string) bool {
	switch strings.ToLower(levelStr) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

func (l *logger) Debug(v ...interface{}) { l.zl.Debug().Msg(fmt.Sprint(v...)) }

func (l *logger) Debugf(format string, v ...interface{}) { l.zl.Debug().Msgf(format, v...) }

func (l *logger) Info(v ...interface{}) { l.zl.Info().Msg(fmt.Sprint(v...)) }

func (l *logger) Infof(format string, v ...interface{}) { l.zl.Info().Msgf(format, v...) }

func (l *logger) Warn(v ...interface{}) { l.zl.Warn().Msg(fmt.Sprint(v...)) }

func (l *logger) Warnf(format string, v ...interface{}) { l.zl.Warn().Msgf(format, v...) }

func (l *logger) Error(v ...interface{}) { l.zl.Error().Msg(fmt.Sprint(v...)) }

func (l *logger) Errorf(format string, v ...interface{}) { l.zl.Error().Msgf(format, v...) }

// Fatal logs an error message and exits
func (l *logger) Fatal(v ...interface{}) { l.zl.Fatal().Msg(fmt.Sprint(v...)) }

// Fatalf logs a formatted error message and exits
func (l *logger) Fatalf(format string, v ...interface{}) { l.zl.Fatal().Msgf(format, v...) }
