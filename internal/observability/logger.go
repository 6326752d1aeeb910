package observability

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

type ctxKey string

const (
	ctxKeyRunID ctxKey = "run_id"
)

// basic global logger, JSON to stdout.
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

func Logger() *slog.Logger {
	return logger
}

// WithFields returns a logger with additional fields.
func WithFields(kv ...any) *slog.Logger {
	return logger.With(kv...)
}

// WithRunID stores a fresh run id in the context. One run id covers a whole
// process invocation (one-shot command or autonomous session).
func WithRunID(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKeyRunID, uuid.NewString())
}

// LoggerFromContext adds run_id if present.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	runID, _ := ctx.Value(ctxKeyRunID).(string)
	if runID == "" {
		return logger
	}
	return logger.With("run_id", runID)
}
