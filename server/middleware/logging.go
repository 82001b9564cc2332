package middleware

import (
	"net/http"
	"slices"
	"time"

	"github.com/kbukum/speakeralign/logger"
)

// quietPaths are probed constantly and not worth a log line each.
var quietPaths = []string{"/health", "/version"}

// slowRequest marks requests worth flagging. Full transcription of a long
// recording legitimately exceeds it, so it only adds a field.
const slowRequest = 30 * time.Second

// RequestLogger logs every request with method, path, status and duration,
// at error for 5xx, warn for 4xx and debug otherwise.
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
			duration := time.Since(start)

			fields := map[string]interface{}{
				"method":              r.Method,
				"path":                r.URL.Path,
				logger.FieldStatus:    sw.status,
				logger.FieldDuration:  duration.Milliseconds(),
				logger.FieldRequestID: r.Header.Get(HeaderRequestID),
			}
			if duration > slowRequest {
				fields["slow"] = true
			}

			switch {
			case sw.status >= 500:
				log.Error("Request completed", fields)
			case sw.status >= 400:
				log.Warn("Request completed", fields)
			default:
				log.Debug("Request completed", fields)
			}
		})
	}
}
