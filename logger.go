package arena

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with arena-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// This is the default for arenas created without WithLogger.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithBackend adds a backend field to the logger.
func (l *Logger) WithBackend(b Backend) *Logger {
	return &Logger{
		Logger: l.Logger.With("backend", b.String()),
	}
}

// LogCreate logs arena creation.
func (l *Logger) LogCreate(capacity, blockSize, align uint64, err error) {
	if err != nil {
		l.Warn("arena create failed",
			"capacity", capacity,
			"block_size", blockSize,
			"align", align,
			"error", err,
		)
		return
	}
	l.Debug("arena created",
		"capacity", capacity,
		"block_size", blockSize,
		"align", align,
	)
}

// LogGrow logs backing storage being added.
func (l *Logger) LogGrow(from, to uint64) {
	l.Debug("arena grew", "from", from, "to", to)
}

// LogShrink logs backing storage being given back.
func (l *Logger) LogShrink(from, to uint64) {
	l.Debug("arena shrank", "from", from, "to", to)
}

// LogFailure logs a failed operation.
func (l *Logger) LogFailure(op string, pos, size uint64, err error) {
	l.Warn("arena operation failed",
		"op", op,
		"pos", pos,
		"size", size,
		"error", err,
	)
}

// LogDestroy logs arena teardown.
func (l *Logger) LogDestroy(err error) {
	if err != nil {
		l.Warn("arena destroy failed", "error", err)
		return
	}
	l.Debug("arena destroyed")
}
