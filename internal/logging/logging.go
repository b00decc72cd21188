// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	globalLogger *slog.Logger
	globalMu     sync.RWMutex

	// logWriter is the rotating file writer, if any, kept for Close.
	logWriter   io.WriteCloser
	logPath     string
	logWriterMu sync.Mutex
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum level (debug, info, warn, error).
	Level string
	// File enables rotated file output. Empty disables it.
	File string
	// MaxSizeMB is the size at which File rotates. Default: 10MB.
	MaxSizeMB int
	// MaxBackups is the number of rotated files kept. Default: 3.
	MaxBackups int
	// Compress gzips rotated files.
	Compress bool
	// JSON switches to the JSON handler.
	JSON bool
	// Console receives log output in addition to File. Nil with a File set
	// means file only; nil without a File means stderr.
	Console io.Writer
}

// Initialize builds the global logger and installs it as slog's default.
func Initialize(cfg Config) error {
	level := parseLevel(cfg.Level)

	logWriterMu.Lock()
	defer logWriterMu.Unlock()

	if logWriter != nil {
		_ = logWriter.Close()
		logWriter = nil
		logPath = ""
	}

	var writers []io.Writer
	if cfg.Console != nil {
		writers = append(writers, cfg.Console)
	}
	if path := strings.TrimSpace(cfg.File); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		maxSize := cfg.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 10
		}
		maxBackups := cfg.MaxBackups
		if maxBackups <= 0 {
			maxBackups = 3
		}
		lj := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    maxSize, // megabytes
			MaxBackups: maxBackups,
			Compress:   cfg.Compress,
		}
		logWriter = lj
		logPath = path
		writers = append(writers, lj)
	}
	if len(writers) == 0 {
		writers = append(writers, os.Stderr)
	}

	opts := &slog.HandlerOptions{Level: level}
	out := io.MultiWriter(writers...)
	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	logger := slog.New(handler)

	globalMu.Lock()
	globalLogger = logger
	globalMu.Unlock()

	slog.SetDefault(logger)
	return nil
}

// Get returns the global logger, or slog.Default before Initialize.
func Get() *slog.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()

	if globalLogger == nil {
		return slog.Default()
	}
	return globalLogger
}

// Close releases the log file, if one is open.
func Close() error {
	logWriterMu.Lock()
	defer logWriterMu.Unlock()

	if logWriter != nil {
		err := logWriter.Close()
		logWriter = nil
		logPath = ""
		return err
	}
	return nil
}

// File returns the path of the open log file, empty when none is open.
func File() string {
	logWriterMu.Lock()
	defer logWriterMu.Unlock()
	return logPath
}

// WithSession tags logger with a controller session id.
func WithSession(logger *slog.Logger, sessionID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With("session_id", sessionID)
}

// WithComponent tags logger with a component name.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With("component", component)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
