// Package logging provides structured logging utilities with context propagation.
//
// Both binaries build their logger here and install it with slog.SetDefault;
// use-case code then logs through slog.Default() with structured attributes
// such as source_id, base_url, page and token.
//
// Example usage:
//
//	logger := logging.NewLogger()
//	slog.SetDefault(logger)
//
//	func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
//	    logger := logging.WithRequestID(r.Context(), slog.Default())
//	    logger.Info("harvest requested", slog.Int64("source_id", id))
//	}
package logging
