package pkgrouter

import (
	"log/slog"
	"net/http"
	"time"
)

// middlewareLogging writes one access log line per request. Server errors log
// at error level and client errors at warn level.
func middlewareLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := record(w)

		next.ServeHTTP(rec, r)

		status := rec.Status()
		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}

		slog.Log(r.Context(), level, "http request",
			"method", r.Method,
			"route", matchedRoutePath(r),
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"status", status,
			"bytes", rec.bytes,
			"content_type", rec.Header().Get("Content-Type"),
			"latency_ms", time.Since(start).Milliseconds(),
		)
	})
}
