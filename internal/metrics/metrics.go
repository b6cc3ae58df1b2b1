package metrics

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"code", "method", "path"},
	)
	httpRequestsDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed.",
		},
	)

	ordersCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "orders_created_total",
			Help:      "Orders assembled from carts.",
		},
		[]string{"currency"},
	)
	orderAmount = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "storefront",
			Name:      "order_amount_minor_units",
			Help:      "Order totals in minor currency units.",
			Buckets:   prometheus.ExponentialBuckets(100, 4, 8),
		},
		[]string{"currency"},
	)
	checkoutFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "checkout_failures_total",
			Help:      "Failed checkouts by error code.",
		},
		[]string{"code"},
	)
	orderStatusChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "order_status_changes_total",
			Help:      "Admin status updates by target status and outcome.",
		},
		[]string{"status", "outcome"},
	)
)

func init() {
	if err := prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		slog.Debug("ProcessCollector registration skipped", slog.String("error", err.Error()))
	}

	if err := prometheus.Register(collectors.NewGoCollector()); err != nil {
		slog.Debug("GoCollector registration skipped", slog.String("error", err.Error()))
	}
}

func OrderCreated(currency string, total int64) {
	ordersCreatedTotal.WithLabelValues(currency).Inc()
	orderAmount.WithLabelValues(currency).Observe(float64(total))
}

func CheckoutFailed(code string) {
	checkoutFailuresTotal.WithLabelValues(code).Inc()
}

func OrderStatusChanged(status string, outcome string) {
	orderStatusChangesTotal.WithLabelValues(status, outcome).Inc()
}

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

// Middleware records request counts and latency labelled by route pattern,
// so /api/orders/{id} is one series rather than one per order.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()

		rw := newResponseWriter(w)

		defer func() {
			path := r.Pattern
			if path == "" {
				path = "unmatched"
			}

			httpRequestsTotal.WithLabelValues(strconv.Itoa(rw.statusCode), r.Method, path).Inc()
			httpRequestsDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
			httpRequestsInFlight.Dec()
		}()

		next.ServeHTTP(rw, r)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}
