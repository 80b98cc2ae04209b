package logger

import (
	"io"
	"log/slog"
	"os"
)

var (
	level slog.LevelVar
	log   *slog.Logger
)

func init() {
	if os.Getenv("SKUGRAPH_DEBUG") == "true" {
		level.Set(slog.LevelDebug)
	}

	SetOutput(os.Stderr)
}

// SetOutput redirects log lines, keeping the current level.
func SetOutput(w io.Writer) {
	log = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: &level}))
}

// SetDebug toggles debug lines at runtime, for when debug comes from the
// config file rather than the environment.
func SetDebug(debug bool) {
	if debug {
		level.Set(slog.LevelDebug)
		return
	}
	level.Set(slog.LevelInfo)
}

func Debug(msg string, args ...any) {
	log.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	log.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	log.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	log.Error(msg, args...)
}
