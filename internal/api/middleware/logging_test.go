package middleware_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/logging"
	"github.com/stretchr/testify/assert"
)

func TestLogging(t *testing.T) {
	t.Run("Propagates request id and logger", func(t *testing.T) {
		var sawLogger bool

		handler := middleware.Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sawLogger = logging.FromContext(r.Context()) != slog.Default()
			w.WriteHeader(http.StatusTeapot)
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		req.Header.Set("X-Request-ID", "req-123")
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.True(t, sawLogger)
		assert.Equal(t, http.StatusTeapot, rr.Code)
		assert.Equal(t, "req-123", rr.Header().Get("X-Request-ID"))
	})

	t.Run("Generates request id", func(t *testing.T) {
		handler := middleware.Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	})
}
