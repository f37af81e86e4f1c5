// Package logging provides structured logging utilities with context propagation.
//
// Loggers are log/slog loggers configured from LOG_LEVEL (debug, info, warn,
// error) and LOG_FORMAT (json or text).
//
//	logger := logging.NewLogger()
//	slog.SetDefault(logger)
//
//	func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
//	    logger := logging.WithRequestID(r.Context(), h.Logger)
//	    logger.Info("listing cards")
//	}
package logging
