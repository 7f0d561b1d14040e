package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector

	c.OrderCreated(3)
	c.OrderRejected("insufficient_stock")
	c.OrderDeleted(3)
	c.LoginAttempt("success")
}

func TestOrderCounters(t *testing.T) {
	c := NewCollector()

	c.OrderCreated(4)
	c.OrderCreated(2)
	c.OrderRejected("insufficient_stock")
	c.OrderDeleted(4)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.ordersCreated))
	assert.Equal(t, 6.0, testutil.ToFloat64(c.unitsSold))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ordersRejected.WithLabelValues("insufficient_stock")))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.unitsRestored))
}

func TestMiddlewareAndHandler(t *testing.T) {
	c := NewCollector()

	app := fiber.New()
	app.Use(c.Middleware())
	app.Get("/orders/:id", func(ctx *fiber.Ctx) error { return ctx.SendString("ok") })
	app.Get("/metrics", c.Handler())

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/orders/7", nil), -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("GET", "/orders/:id", "200")))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `inventory_http_requests_total{method="GET",path="/orders/:id",status="200"} 2`)
}

func TestMetricsScrapeAfterMixedMethods(t *testing.T) {
	c := NewCollector()

	app := fiber.New()
	app.Use(c.Middleware())
	app.All("/a", func(ctx *fiber.Ctx) error { return ctx.SendString("ok") })
	app.Get("/metrics", c.Handler())

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodGet} {
		resp, err := app.Test(httptest.NewRequest(method, "/a", nil), -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `inventory_http_requests_total{method="GET",path="/a",status="200"} 2`)
	assert.Contains(t, string(body), `inventory_http_requests_total{method="PUT",path="/a",status="200"} 1`)
	assert.Contains(t, string(body), `inventory_http_requests_total{method="DELETE",path="/a",status="200"} 1`)
}
