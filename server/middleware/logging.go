package middleware

import (
	"net/http"
	"slices"
	"time"

	"github.com/kbukum/slideshow/logger"
)

var quietPaths = []string{"/health", "/ready", "/version"}

// RequestLogger logs method, path, status and duration of every request.
// Probe paths are not logged. The SSE stream logs once it closes.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(quietPaths, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)

			fields := map[string]interface{}{
				"method":             r.Method,
				"path":               r.URL.Path,
				logger.FieldStatus:   sw.status,
				logger.FieldDuration: time.Since(start).Milliseconds(),
				"bytes":              sw.bytes,
			}
			if q := r.URL.RawQuery; q != "" {
				fields["query"] = q
			}
			if id := r.Header.Get(HeaderRequestID); id != "" {
				fields["request_id"] = id
			}
			logByStatus(log, fields, sw.status)
		})
	}
}

func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		log.Error("Request completed", fields)
	case status >= 400:
		log.Warn("Request completed", fields)
	default:
		log.Debug("Request completed", fields)
	}
}
