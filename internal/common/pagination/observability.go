package pagination

import (
	"context"
	"log/slog"
	"time"
)

func pageAttrs(requestID string, p Params) []slog.Attr {
	return []slog.Attr{
		slog.String("request_id", requestID),
		slog.Int("offset", p.Offset),
		slog.Int("limit", p.Limit),
	}
}

// LogRequest logs an incoming page request. userID is empty for anonymous callers.
func LogRequest(logger *slog.Logger, requestID, userID string, p Params) {
	attrs := pageAttrs(requestID, p)
	if userID != "" {
		attrs = append(attrs, slog.String("user_id", userID))
	}
	logger.LogAttrs(context.Background(), slog.LevelDebug, "page requested", attrs...)
}

// LogResponse logs a served page.
func LogResponse(logger *slog.Logger, requestID string, p Params, returned int, d time.Duration, status int) {
	logger.LogAttrs(context.Background(), slog.LevelInfo, "page served",
		append(pageAttrs(requestID, p),
			slog.Int("returned", returned),
			slog.Int64("duration_ms", d.Milliseconds()),
			slog.Int("status", status))...)
}

// LogError logs a failed page request; kind matches the RecordError label.
func LogError(logger *slog.Logger, requestID string, p Params, err error, kind string) {
	logger.LogAttrs(context.Background(), slog.LevelError, "page failed",
		append(pageAttrs(requestID, p),
			slog.String("error", err.Error()),
			slog.String("error_type", kind))...)
}
