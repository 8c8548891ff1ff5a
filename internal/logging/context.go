package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

type loggerKey struct{}

// FromContext returns the logger carried by ctx, or the default logger.
// Engine packages log through it so that callers decide level and fields.
func FromContext(ctx context.Context) *log.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(*log.Logger); ok && logger != nil {
			return logger
		}
	}
	return Default()
}

// WithLogger returns ctx carrying logger. A nil ctx starts from
// context.Background.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// WithFields returns ctx carrying a child of its logger with keyvals
// attached, e.g. the path of the file being reparsed.
func WithFields(ctx context.Context, keyvals ...any) context.Context {
	if len(keyvals) == 0 {
		return WithLogger(ctx, FromContext(ctx))
	}
	return WithLogger(ctx, FromContext(ctx).With(keyvals...))
}
