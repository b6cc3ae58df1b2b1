package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/logging"
	"github.com/google/uuid"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Logging attaches a request-scoped logger carrying the correlation id and
// logs the request start and completion.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		correlationID := r.Header.Get("X-Request-ID")
		if correlationID == "" {
			correlationID = uuid.NewString()
		}

		w.Header().Set("X-Request-ID", correlationID)

		requestLogger := slog.Default().With(
			slog.String("correlation_id", correlationID),
			slog.String("http_method", r.Method),
			slog.String("http_path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("user_agent", r.UserAgent()),
		)

		requestLogger.Info("Incoming request")

		rw := newResponseWriter(w)

		next.ServeHTTP(rw, r.WithContext(logging.WithLogger(r.Context(), requestLogger)))

		requestLogger.Info("Request completed", slog.Int("http_status", rw.statusCode), slog.Duration("duration", time.Since(start)))
	})
}
