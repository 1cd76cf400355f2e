package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger is the process-wide structured logger. It falls back to
// slog.Default until Init runs, so packages can log from tests.
var Logger = slog.Default()

// Init installs a text handler on stdout. DEBUG=true enables debug level.
func Init() {
	InitWriter(os.Stdout, os.Getenv("DEBUG") == "true")
}

// InitWriter installs a text handler writing to w.
func InitWriter(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	Logger = slog.New(slog.NewTextHandler(w, opts))
	slog.SetDefault(Logger)
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
