package logging

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strings"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls log level and output.
type Config struct {
	Level string `toml:"level" validate:"oneof=trace debug info warn warning error fatal panic"`

	// File, when set, receives a copy of the log with size-based rotation.
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" validate:"gte=0"`
	MaxAgeDays int    `toml:"max_age_days" validate:"gte=0"`
	MaxBackups int    `toml:"max_backups" validate:"gte=0"`
	Compress   bool   `toml:"compress"`

	NoColors bool `toml:"no_colors"`
}

// DefaultConfig logs at info level to stderr only.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		MaxSizeMB:  100,
		MaxAgeDays: 7,
		MaxBackups: 3,
		Compress:   true,
	}
}

// New builds a logger writing to stderr and, if configured, a rotated file.
func New(cfg Config) (*logrus.Logger, error) {
	return newLogger(cfg, os.Stderr)
}

func newLogger(cfg Config, stderr io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&formatter.Formatter{
		NoColors:              cfg.NoColors,
		TimestampFormat:       "02 Jan 06 - 15:04:05",
		CallerFirst:           true,
		CustomCallerFormatter: callerFormatter(cfg.NoColors),
	})

	writers := []io.Writer{stderr}
	if cfg.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			LocalTime:  true,
			Compress:   cfg.Compress,
			MaxSize:    cfg.MaxSizeMB,
			MaxAge:     cfg.MaxAgeDays,
			MaxBackups: cfg.MaxBackups,
		})
	}

	logger.SetOutput(io.MultiWriter(writers...))
	logger.SetReportCaller(true)
	return logger, nil
}

func callerFormatter(noColors bool) func(*runtime.Frame) string {
	return func(f *runtime.Frame) string {
		s := strings.Split(f.Function, ".")
		funcName := s[len(s)-1]
		if noColors {
			return fmt.Sprintf(" [%s:%d][%s()]", path.Base(f.File), f.Line, funcName)
		}
		return fmt.Sprintf(" \x1b[%dm[%s:%d][%s()]", 34, path.Base(f.File), f.Line, funcName)
	}
}

// Component returns an entry tagged with the component name.
func Component(logger *logrus.Logger, name string) *logrus.Entry {
	return logger.WithField("component", name)
}
