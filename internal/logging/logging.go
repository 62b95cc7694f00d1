// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package logging builds the process-wide slog logger: text output in
// development, JSON elsewhere, optionally tee'd to a rotating file.
package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation defaults for the log file.
const (
	MaxSizeMB  = 100
	MaxBackups = 5
	MaxAgeDays = 30
)

// Options configure New.
type Options struct {
	Level string // debug, info, warn, error
	JSON  bool
	File  string // rotating log file; empty logs to stdout only
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// New creates a logger writing to stdout and, when opts.File is set, to a
// size-rotated file. The returned closer releases the file.
func New(opts Options) (*slog.Logger, io.Closer) {
	return NewWriter(os.Stdout, opts)
}

// NewWriter is New with os.Stdout replaced by stdout.
func NewWriter(stdout io.Writer, opts Options) (*slog.Logger, io.Closer) {
	var w io.Writer = stdout
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    MaxSizeMB,
			MaxBackups: MaxBackups,
			MaxAge:     MaxAgeDays,
			Compress:   true,
		}
		w = io.MultiWriter(stdout, file)
		closer = file
	}

	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}
	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(w, handlerOpts)
	} else {
		h = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(contextHandler{h}), closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type ctxKey struct{}

// With returns a context whose log records carry the given attributes, for
// example a request id.
func With(ctx context.Context, args ...any) context.Context {
	prev, _ := ctx.Value(ctxKey{}).([]any)
	merged := make([]any, 0, len(prev)+len(args))
	merged = append(merged, prev...)
	merged = append(merged, args...)
	return context.WithValue(ctx, ctxKey{}, merged)
}

// contextHandler adds attributes stored by With to records logged through
// the *Context slog functions.
type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if args, ok := ctx.Value(ctxKey{}).([]any); ok {
		r.Add(args...)
	}
	return h.Handler.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}

// Close closes c, ignoring a nil closer.
func Close(c io.Closer) error {
	if c == nil {
		return nil
	}
	if err := c.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return err
	}
	return nil
}
