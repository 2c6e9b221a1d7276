// Package contextutil carries request-scoped values through context. The chat
// pipeline threads one *slog.Logger per turn so every layer logs with the
// same request attributes.
package contextutil

import (
	"context"
	"log/slog"
)

type contextKey string

const loggerKey contextKey = "logger"

// LoggerFromContext returns the logger stored in ctx. When no logger was
// attached (tests, background jobs like the indexer) it falls back to
// slog.Default, so callers never need a nil check.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctxLogger := ctx.Value(loggerKey); ctxLogger != nil {
		if l, ok := ctxLogger.(*slog.Logger); ok {
			return l
		}
	}
	return slog.Default()
}

// LoggerKey returns the key the HTTP middleware stores the per-request logger
// under. The key type is unexported, so attaching a logger from outside this
// package always goes through it.
func LoggerKey() contextKey {
	return loggerKey
}
