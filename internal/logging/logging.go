// Package logging provides structured logging using Go's slog package.
package logging

import (
	"log/slog"
	"os"
	"time"
)

var (
	// defaultLogger is the global logger instance.
	defaultLogger *slog.Logger
)

func init() {
	// Initialize with a default logger (JSON format, Info level)
	InitLogger(LevelInfo, FormatJSON)
}

// Level represents a log level.
type Level int

const (
	// LevelDebug is for debug messages.
	LevelDebug Level = iota
	// LevelInfo is for informational messages.
	LevelInfo
	// LevelWarn is for warning messages.
	LevelWarn
	// LevelError is for error messages.
	LevelError
)

// Format represents a log output format.
type Format int

const (
	// FormatJSON outputs logs in JSON format.
	FormatJSON Format = iota
	// FormatText outputs logs in human-readable text format.
	FormatText
)

// InitLogger initializes the global logger with the specified level and format.
func InitLogger(level Level, format Format) {
	var slogLevel slog.Level
	switch level {
	case LevelDebug:
		slogLevel = slog.LevelDebug
	case LevelInfo:
		slogLevel = slog.LevelInfo
	case LevelWarn:
		slogLevel = slog.LevelWarn
	case LevelError:
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: slogLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Customize timestamp format
			if a.Key == slog.TimeKey {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

// GetLogger returns the global logger instance.
func GetLogger() *slog.Logger {
	return defaultLogger
}

// Helper functions for common logging patterns

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

// ProjectRead logs a successful project load.
func ProjectRead(path string, chapters, scenes int, args ...any) {
	allArgs := []any{
		"path", path,
		"chapters", chapters,
		"scenes", scenes,
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Info("project_read", allArgs...)
}

// ProjectWritten logs a successful project save.
func ProjectWritten(path string, bytes int, args ...any) {
	allArgs := []any{
		"path", path,
		"bytes", bytes,
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Info("project_written", allArgs...)
}

// MergeEvent logs the outcome of merging a source project into a target.
func MergeEvent(targetPath string, scenes, chapters int, didSplit bool, args ...any) {
	allArgs := []any{
		"target", targetPath,
		"scenes", scenes,
		"chapters", chapters,
		"split", didSplit,
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Info("merge_event", allArgs...)
}

// SplitEvent logs scene splitting triggered by structural markers.
func SplitEvent(scenesBefore, scenesAfter, chaptersAfter int, args ...any) {
	allArgs := []any{
		"scenes_before", scenesBefore,
		"scenes_after", scenesAfter,
		"chapters_after", chaptersAfter,
	}
	allArgs = append(allArgs, args...)
	defaultLogger.Info("split_event", allArgs...)
}
