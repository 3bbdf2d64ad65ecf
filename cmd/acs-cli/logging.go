package main

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// setupLogging sends logs to stderr so stdout carries only command output.
func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
	})))
}
