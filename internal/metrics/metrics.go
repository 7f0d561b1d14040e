package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "inventory"

// Collector owns the application registry. A nil *Collector records nothing.
type Collector struct {
	registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	ordersCreated  prometheus.Counter
	ordersRejected *prometheus.CounterVec
	ordersDeleted  prometheus.Counter
	unitsSold      prometheus.Counter
	unitsRestored  prometheus.Counter
	loginAttempts  *prometheus.CounterVec
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		}, []string{"method", "path"}),
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "created_total",
			Help:      "Orders accepted.",
		}),
		ordersRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "rejected_total",
			Help:      "Orders refused, by reason.",
		}, []string{"reason"}),
		ordersDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "deleted_total",
			Help:      "Orders deleted.",
		}),
		unitsSold: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stock",
			Name:      "units_ordered_total",
			Help:      "Units taken out of stock by orders.",
		}),
		unitsRestored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stock",
			Name:      "units_restored_total",
			Help:      "Units put back into stock by deleted orders.",
		}),
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "login_attempts_total",
			Help:      "Login attempts, by outcome.",
		}, []string{"outcome"}),
	}

	c.registry.MustRegister(
		c.httpInFlight,
		c.httpRequests,
		c.httpDuration,
		c.ordersCreated,
		c.ordersRejected,
		c.ordersDeleted,
		c.unitsSold,
		c.unitsRestored,
		c.loginAttempts,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{}))
}

// Middleware records count and latency per route pattern.
func (c *Collector) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if ctx.Path() == "/metrics" {
			return ctx.Next()
		}

		start := time.Now()
		c.httpInFlight.Inc()
		defer c.httpInFlight.Dec()

		err := ctx.Next()

		status := ctx.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		path := ctx.Route().Path
		// Label values outlive the request; fiber strings alias its buffers.
		method := strings.ToUpper(utils.CopyString(ctx.Method()))

		c.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		c.httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		return err
	}
}

func (c *Collector) OrderCreated(units int) {
	if c == nil {
		return
	}
	c.ordersCreated.Inc()
	c.unitsSold.Add(float64(units))
}

func (c *Collector) OrderRejected(reason string) {
	if c == nil {
		return
	}
	c.ordersRejected.WithLabelValues(reason).Inc()
}

func (c *Collector) OrderDeleted(unitsRestored int) {
	if c == nil {
		return
	}
	c.ordersDeleted.Inc()
	c.unitsRestored.Add(float64(unitsRestored))
}

func (c *Collector) LoginAttempt(outcome string) {
	if c == nil {
		return
	}
	c.loginAttempts.WithLabelValues(outcome).Inc()
}
