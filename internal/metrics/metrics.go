package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	CheckoutSucceeded   = "succeeded"
	CheckoutCartMissing = "cart_missing"
	CheckoutCartEmpty   = "cart_empty"
	CheckoutFailed      = "failed"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	gatherer         prometheus.Gatherer
	requests         *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	checkouts        *prometheus.CounterVec
	checkoutDuration prometheus.Histogram
	orderItems       prometheus.Histogram
}

func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		return nil
	}
	m := &Metrics{
		gatherer: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "checkouts_total",
			Help: "Checkout attempts by result.",
		}, []string{"result"}),
		checkoutDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "checkout_duration_seconds",
			Help:    "Duration of the checkout transaction in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		orderItems: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "order_items_per_order",
			Help:    "Number of order items created per successful checkout.",
			Buckets: []float64{1, 2, 3, 5, 10, 20, 50},
		}),
	}
	reg.MustRegister(m.requests, m.requestDuration, m.checkouts, m.checkoutDuration, m.orderItems)
	return m
}

func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) ObserveCheckout(result string, d time.Duration, items int) {
	if m == nil {
		return
	}
	m.checkouts.WithLabelValues(result).Inc()
	m.checkoutDuration.Observe(d.Seconds())
	if result == CheckoutSucceeded {
		m.orderItems.Observe(float64(items))
	}
}

// Middleware records every request. statusOf resolves the status of a handler error,
// since the error handler only writes the response after this middleware returns.
func (m *Metrics) Middleware(statusOf func(error) int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil {
				return next(c)
			}
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = statusOf(err)
			}
			m.ObserveRequest(c.Request().Method, c.Path(), status, time.Since(start))
			return err
		}
	}
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
