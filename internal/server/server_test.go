package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fekuna/omnipos-inventory-web/config"
	"github.com/fekuna/omnipos-inventory-web/internal/logger"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	static := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(static, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(static, "css", "style.css"), []byte("body{}"), 0o644))

	cfg := config.LoadEnv()
	cfg.Server.StaticDir = static
	cfg.Server.ShutdownTimeout = time.Second
	cfg.Upload.Dir = filepath.Join(static, "uploads", "profile_images")
	cfg.Session.Store = "memory"

	return New(cfg, sqlx.NewDb(mockDB, "postgres"), nil, logger.NewNop()), mock
}

func get(t *testing.T, s *Server, path string, header ...string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestHealth(t *testing.T) {
	s, mock := newTestServer(t)

	mock.ExpectPing()
	resp := get(t, s, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	mock.ExpectPing().WillReturnError(assert.AnError)
	resp = get(t, s, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProtectedPagesRedirectToLogin(t *testing.T) {
	s, _ := newTestServer(t)

	for _, path := range []string{"/dashboard", "/inventory", "/orders", "/report", "/reset-db", "/order_details/1"} {
		resp := get(t, s, path)
		assert.Equal(t, http.StatusFound, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}
}

func TestProtectedAPIsAnswer401(t *testing.T) {
	s, _ := newTestServer(t)

	for _, path := range []string{"/api/dashboard", "/api/categories", "/recent-orders"} {
		resp := get(t, s, path)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}

	req := httptest.NewRequest(http.MethodPost, "/edit_order/1", strings.NewReader(`{"status":"Shipped"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginPageRenders(t *testing.T) {
	s, _ := newTestServer(t)

	resp := get(t, s, "/login")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `action="/login"`)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestNotFound(t *testing.T) {
	s, _ := newTestServer(t)

	resp := get(t, s, "/nowhere")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Page not found")

	resp = get(t, s, "/nowhere", "Accept", "application/json")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, false, payload["success"])
}

func TestStaticAndMetrics(t *testing.T) {
	s, _ := newTestServer(t)

	resp := get(t, s, "/static/css/style.css")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "inventory_http_requests_total")
}

func TestNormalizePort(t *testing.T) {
	assert.Equal(t, ":5000", normalizePort("5000"))
	assert.Equal(t, ":5000", normalizePort(":5000"))
	assert.Equal(t, "127.0.0.1:5000", normalizePort("127.0.0.1:5000"))
}
