// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

// Package logger builds the process-wide structured logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options configures [New].
type Options struct {
	App     string
	Version string
	Env     string
	Level   string // debug, info, warn, error
	Format  string // json, text
	Debug   bool   // forces debug level

	// Output defaults to os.Stdout.
	Output io.Writer
}

// New returns a configured [*slog.Logger] and installs it as the default.
func New(opts Options) *slog.Logger {
	output := opts.Output
	if output == nil {
		output = os.Stdout
	}

	level := ParseLevel(opts.Level)
	if opts.Debug {
		level = slog.LevelDebug
	}

	handlerOptions := &slog.HandlerOptions{
		AddSource: opts.Env == "development" && level == slog.LevelDebug,
		Level:     level,
	}

	var handler slog.Handler
	switch strings.ToLower(opts.Format) {
	case "text":
		handler = slog.NewTextHandler(output, handlerOptions)
	default:
		handler = slog.NewJSONHandler(output, handlerOptions)
	}

	log := slog.New(handler).With(
		slog.String("app", opts.App),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	slog.SetDefault(log)
	return log
}

// ParseLevel maps a level name to [slog.Level]. Unknown names map to info.
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
