package admin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fekuna/omnipos-inventory-web/internal/auth"
	"github.com/fekuna/omnipos-inventory-web/internal/logger"
	"github.com/fekuna/omnipos-inventory-web/internal/web"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(r Resetter, enabled bool) *fiber.App {
	sessions := auth.NewSessionManager(auth.SessionConfig{CookieName: "s", Expiration: time.Hour}, logger.NewNop())
	h := NewHandler(r, enabled, web.NewRenderer(sessions), logger.NewNop())

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		auth.SetIdentity(c, &auth.Identity{UserID: 1, Name: "Demo User"})
		return c.Next()
	})
	app.Get("/reset-db", h.ResetDB)
	return app
}

func TestResetDB(t *testing.T) {
	calls := 0
	app := newTestApp(ResetFunc(func(context.Context) error {
		calls++
		return nil
	}), true)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/reset-db", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
	assert.Equal(t, 1, calls)
}

func TestResetDBFailureStillRedirects(t *testing.T) {
	app := newTestApp(ResetFunc(func(context.Context) error { return errors.New("locked") }), true)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/reset-db", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
}

func TestResetDBDisabled(t *testing.T) {
	app := newTestApp(ResetFunc(func(context.Context) error {
		t.Fatal("reset must not run")
		return nil
	}), false)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/reset-db", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
