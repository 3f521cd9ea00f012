// Package logging wraps log/slog behind a small functional-options
// constructor, the way the teacher's reference stack builds its slog
// logger.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Logger is the subset of *slog.Logger nodeql's internals depend on.
type Logger struct {
	l *slog.Logger
}

// Option configures a Logger at construction time.
type Option func(*options)

type options struct {
	level  slog.Level
	output io.Writer
	json   bool
}

func defaultOptions() *options {
	return &options{level: slog.LevelInfo, output: os.Stderr, json: true}
}

func WithLevel(level slog.Level) Option { return func(o *options) { o.level = level } }
func WithOutput(w io.Writer) Option     { return func(o *options) { o.output = w } }
func WithText() Option                  { return func(o *options) { o.json = false } }

// New builds a Logger. With no options it logs JSON at info level to stderr.
func New(opts ...Option) *Logger {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	handlerOpts := &slog.HandlerOptions{Level: o.level}
	var handler slog.Handler
	if o.json {
		handler = slog.NewJSONHandler(o.output, handlerOpts)
	} else {
		handler = slog.NewTextHandler(o.output, handlerOpts)
	}
	return &Logger{l: slog.New(handler)}
}

func (l *Logger) Debug(msg string, args ...any) { l.l.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.l.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.l.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.l.Error(msg, args...) }

// With returns a child logger carrying the given structured fields on
// every subsequent call, e.g. logger.With("query", dsl).
func (l *Logger) With(args ...any) *Logger {
	return &Logger{l: l.l.With(args...)}
}

// Default is a process-wide logger used where a caller has not wired one
// through explicitly (the nodeql facade, and engine.New given a nil
// logger).
var Default = New()
