// Package logging defines the structured-logging interface used across the
// server, with adapters for log/slog and zap.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "group created", "group_id", id, "user_id", userID)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// New builds a JSON logger writing to w for the named backend ("slog" or
// "zap"). Unknown backends are an error so a typo in config fails at startup.
func New(backend string, w io.Writer) (Logger, error) {
	switch backend {
	case "", "slog":
		return NewSlogLogger(slog.New(slog.NewJSONHandler(w, nil))), nil
	case "zap":
		enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		core := zapcore.NewCore(enc, zapcore.AddSync(w), zapcore.InfoLevel)
		return NewZapLogger(zap.New(core)), nil
	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}

// Sync flushes l if its backend buffers entries. Backends without buffering
// are a no-op.
func Sync(l Logger) error {
	if s, ok := l.(interface{ Sync() error }); ok {
		return s.Sync()
	}
	return nil
}
