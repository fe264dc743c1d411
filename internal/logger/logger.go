package logger

import (
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Sivko/redirects-frizar/internal/config"
	"github.com/Sivko/redirects-frizar/internal/errorwrapper"
)

// New builds a zerolog.Logger from the log configuration. Console output is
// always enabled; when a log file is configured, output additionally goes to
// a size-rotated file.
func New(cfg config.LogConfig) (zerolog.Logger, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Logger{}, err
	}

	writers := []io.Writer{consoleWriter(cfg.LogFormat)}

	if cfg.LogFile != "" {
		fileWriter, err := newFileWriter(cfg)
		if err != nil {
			return zerolog.Logger{}, err
		}
		writers = append(writers, fileWriter)
	}

	multiWriter := zerolog.MultiLevelWriter(writers...)
	logger := zerolog.New(multiWriter).
		Level(level).
		With().
		Timestamp().
		Logger()

	zerolog.SetGlobalLevel(level)

	// Route the standard log package through zerolog as well
	stdlog.SetOutput(logger)
	stdlog.SetFlags(0)

	return logger, nil
}

// parseLevel parses a string log level to zerolog.Level
func parseLevel(levelStr string) (zerolog.Level, error) {
	if levelStr == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		return zerolog.InfoLevel, errorwrapper.WrapError(err, "invalid log level")
	}
	return level, nil
}

// consoleWriter creates the stderr writer for the configured format
func consoleWriter(format string) io.Writer {
	switch strings.ToLower(format) {
	case "json":
		return os.Stderr
	default:
		return zerolog.ConsoleWriter{Out: os.Stderr}
	}
}

// newFileWriter creates a size-rotated file writer
func newFileWriter(cfg config.LogConfig) (io.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to create log directory")
	}

	return &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.MaxLogSizeMB,
		MaxBackups: cfg.MaxLogBackups,
		LocalTime:  true,
	}, nil
}
