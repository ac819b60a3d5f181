package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Logger discards everything until Init is called.
var Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

var logFile *os.File

// Init opens <dir>/cubeproc.log and routes all package logging to it.
func Init(dir, level string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(filepath.Join(dir, "cubeproc.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	if logFile != nil {
		logFile.Close()
	}
	logFile = file

	Logger = slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
	return nil
}

// Close flushes and closes the log file, if one is open.
func Close() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return err
}

// ParseLevel maps "debug", "warn" and "error" to slog levels; anything else is info.
func ParseLevel(level string) slog.Level {
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

func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Log writes at an arbitrary level.
func Log(level slog.Level, msg string, args ...any) {
	Logger.Log(context.Background(), level, msg, args...)
}
