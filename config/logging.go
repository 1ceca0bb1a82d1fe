package config

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/sarchlab/lasm/core"
)

var levels = map[string]slog.Level{
	"trace": core.LevelTrace,
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// ParseLevel converts a level name to a slog level. "trace" enables the
// per-instruction logs of the machine.
func ParseLevel(name string) (slog.Level, error) {
	l, ok := levels[name]
	if !ok {
		return 0, fmt.Errorf("unknown log level %q", name)
	}

	return l, nil
}

// SetupLogging installs a handler writing to w as the default logger.
func SetupLogging(c Config, w io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if c.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger, nil
}
