package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
)

type Options struct {
	Level string
	// File, when set, receives the log instead of Output. The TUI uses this
	// to keep the alternate screen clean.
	File   string
	Output io.Writer
}

// New builds the root logger. The returned closer releases the log file, if
// one was opened, and is always safe to call.
func New(name string, opts Options) (hclog.Logger, func() error, error) {
	level := hclog.LevelFromString(opts.Level)
	if level == hclog.NoLevel {
		level = hclog.Info
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	closer := func() error { return nil }
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, closer, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, closer, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closer = f.Close
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Level:  level,
		Output: out,
	})
	return logger, closer, nil
}

// Discard is the logger used when a component is built without one.
func Discard() hclog.Logger {
	return hclog.NewNullLogger()
}
