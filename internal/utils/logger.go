package utils

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// Logger defines a unified logging interface used across the pipeline
// services.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// Structured logging with key-value pairs
	With(args ...any) Logger

	LogError(err error, msg string, args ...any)

	// Close releases the log file sink, if one is open.
	Close() error
}

// SlogLogger implements Logger using slog. Console output is always on;
// when file logging is enabled the same records are appended to a text log
// whose write failures are silently dropped so they never mask the primary
// operation.
type SlogLogger struct {
	logger *slog.Logger
	file   *os.File
}

// NewSlogLogger wraps an existing slog.Logger.
func NewSlogLogger(logger *slog.Logger) Logger {
	return &SlogLogger{logger: logger}
}

// NewDefaultLogger creates a console-only text logger.
func NewDefaultLogger() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))
}

// NewPipelineLogger creates the process logger. When enableFile is true an
// append-only file sink is opened at logPath and a session separator is
// written so consecutive runs are distinguishable. A file that cannot be
// opened degrades to console-only logging.
func NewPipelineLogger(enableFile bool, logPath string) Logger {
	console := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	if !enableFile {
		return &SlogLogger{logger: slog.New(console)}
	}

	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		logger := slog.New(console)
		logger.Warn("log file unavailable, console only", "path", logPath, "error", err)
		return &SlogLogger{logger: logger}
	}

	fmt.Fprintf(file, "----- session %s -----\n", time.Now().Format(time.RFC3339))

	fileHandler := slog.NewTextHandler(file, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})

	return &SlogLogger{
		logger: slog.New(multiHandler{handlers: []slog.Handler{console, fileHandler}}),
		file:   file,
	}
}

func (l *SlogLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

func (l *SlogLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

func (l *SlogLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l *SlogLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

func (l *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{
		logger: l.logger.With(args...),
		file:   l.file,
	}
}

func (l *SlogLogger) LogError(err error, msg string, args ...any) {
	allArgs := append([]any{"error", err}, args...)
	l.logger.Error(msg, allArgs...)
}

func (l *SlogLogger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// multiHandler fans records out to every handler. Sink errors are dropped:
// a failing log file must not surface as a pipeline failure.
type multiHandler struct {
	handlers []slog.Handler
}

func (m multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, record.Level) {
			_ = h.Handle(ctx, record.Clone())
		}
	}
	return nil
}

func (m multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return multiHandler{handlers: handlers}
}

func (m multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return multiHandler{handlers: handlers}
}
