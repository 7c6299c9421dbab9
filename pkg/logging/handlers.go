package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Format represents the log file format
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config describes where and how to log
type Config struct {
	// Level is the minimum log level
	Level Level
	// Console receives human-oriented logs; nil disables console output
	Console *os.File
	// File is the log file path; empty disables file output
	File string
	// Format is the file format (json or text)
	Format Format
	// MaxSizeMB is the size in megabytes before the file is rotated
	MaxSizeMB int
	// MaxBackups is the number of rotated files to keep
	MaxBackups int
}

// New builds a logger from cfg. With neither a console nor a file it
// returns a NullLogger.
func New(cfg Config) (Logger, error) {
	var handlers []slog.Handler
	var closers []io.Closer

	if cfg.Console != nil {
		handlers = append(handlers, NewConsoleHandler(cfg.Console, cfg.Level))
	}

	if cfg.File != "" {
		handler, closer, err := NewFileHandler(cfg)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, handler)
		closers = append(closers, closer)
	}

	switch len(handlers) {
	case 0:
		return NewNullLogger(), nil
	case 1:
		return NewSlogLogger(handlers[0], closers...), nil
	default:
		return NewSlogLogger(NewMultiHandler(handlers...), closers...), nil
	}
}

// NewConsoleHandler returns a tint handler, colourised only on terminals
func NewConsoleHandler(f *os.File, level Level) slog.Handler {
	return tint.NewHandler(f, &tint.Options{
		Level:      level.slog(),
		TimeFormat: time.TimeOnly,
		NoColor:    !isatty.IsTerminal(f.Fd()),
	})
}

// NewFileHandler returns a handler writing to a rotating log file
func NewFileHandler(cfg Config) (slog.Handler, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	maxSize := cfg.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 10
	}
	w := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    maxSize,
		MaxBackups: cfg.MaxBackups,
	}

	opts := &slog.HandlerOptions{Level: cfg.Level.slog()}
	if cfg.Format == FormatJSON {
		return slog.NewJSONHandler(w, opts), w, nil
	}
	return slog.NewTextHandler(w, opts), w, nil
}

// MultiHandler forwards records to several handlers
type MultiHandler struct {
	handlers []slog.Handler
}

// NewMultiHandler creates a handler fanning out to handlers
func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: handlers}
}

// Enabled implements slog.Handler
func (h *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle implements slog.Handler
func (h *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, r.Level) {
			continue
		}
		if e := handler.Handle(ctx, r.Clone()); e != nil {
			err = e
		}
	}
	return err
}

// WithAttrs implements slog.Handler
func (h *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return NewMultiHandler(handlers...)
}

// WithGroup implements slog.Handler
func (h *MultiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return NewMultiHandler(handlers...)
}
