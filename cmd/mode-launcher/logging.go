package main

import (
	"io"
	"log/slog"
	"strings"

	"github.com/jrepp/modelauncher/pkg/launcher"
)

// newLogger builds the diagnostics logger. Diagnostics share stderr with
// error lines; stdout carries progress only.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, launcher.ErrInvalidConfiguration("log_level", level, "log level must be debug, info, warn or error")
	}

	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, launcher.ErrInvalidConfiguration("log_format", format, "log format must be text or json")
	}
}
