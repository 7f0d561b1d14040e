package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fekuna/omnipos-inventory-web/internal/auth"
	"github.com/fekuna/omnipos-inventory-web/internal/logger"
	"github.com/fekuna/omnipos-inventory-web/internal/metrics"
	"github.com/fekuna/omnipos-inventory-web/internal/middleware"
	"github.com/fekuna/omnipos-inventory-web/internal/model"
	"github.com/fekuna/omnipos-inventory-web/internal/upload"
	"github.com/fekuna/omnipos-inventory-web/internal/user"
	"github.com/fekuna/omnipos-inventory-web/internal/user/dto"
	"github.com/fekuna/omnipos-inventory-web/internal/validation"
	"github.com/fekuna/omnipos-inventory-web/internal/web"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cookieName = "test_session"

type fakeUseCase struct {
	registerErr error
	registered  *dto.RegisterInput
	images      map[int64]string
}

func (f *fakeUseCase) Register(_ context.Context, in *dto.RegisterInput) (*model.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	f.registered = in
	return &model.User{ID: 2, Name: in.Name, Email: in.Email}, nil
}

func (f *fakeUseCase) Login(_ context.Context, in *dto.LoginInput) (*model.User, error) {
	if in.Email == "demo@example.com" && in.Password == "password123" {
		return &model.User{ID: 1, Name: "Demo User", Email: in.Email, ImageURL: model.DefaultAvatarURL}, nil
	}
	return nil, user.ErrInvalidCredentials
}

func (f *fakeUseCase) UpdateProfileImage(_ context.Context, userID int64, imageURL string) error {
	if f.images == nil {
		f.images = map[int64]string{}
	}
	f.images[userID] = imageURL
	return nil
}

type testEnv struct {
	app     *fiber.App
	uc      *fakeUseCase
	metrics *metrics.Collector
	dir     string
}

func newTestEnv(t *testing.T, burst int) *testEnv {
	t.Helper()
	uc := &fakeUseCase{}
	sessions := auth.NewSessionManager(auth.SessionConfig{CookieName: cookieName, Expiration: time.Hour}, logger.NewNop())
	dir := filepath.Join(t.TempDir(), "profile_images")
	store := upload.NewStore(upload.Config{
		Dir:               dir,
		PublicPrefix:      "/static/uploads/profile_images",
		AllowedExtensions: []string{"png", "jpg", "jpeg", "gif"},
		MaxBytes:          1024,
	})
	m := metrics.NewCollector()
	h := NewUserHandler(uc, sessions, web.NewRenderer(sessions), store, m, logger.NewNop())
	limiter := middleware.NewRateLimiter(0.001, burst, logger.NewNop())

	app := fiber.New(fiber.Config{Views: web.NewEngine()})
	app.Get("/", h.Index)
	app.Get("/login", h.LoginPage)
	app.Post("/login", limiter.Handler(h.LoginThrottled), h.Login)
	app.Get("/register", h.RegisterPage)
	app.Post("/register", h.Register)
	app.Get("/logout", h.Logout)
	app.Get("/whoami", sessions.RequirePage(), func(c *fiber.Ctx) error {
		id := auth.GetIdentity(c)
		return c.SendString(id.Name + " " + id.ImageURL)
	})
	app.Post("/upload-profile-image", sessions.RequireAPI(), h.UploadProfileImage)
	return &testEnv{app: app, uc: uc, metrics: m, dir: dir}
}

func (e *testEnv) do(t *testing.T, req *http.Request, cookie *http.Cookie) *http.Response {
	t.Helper()
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func formRequest(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == cookieName && c.Value != "" {
			return c
		}
	}
	return nil
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func (e *testEnv) login(t *testing.T) *http.Cookie {
	t.Helper()
	resp := e.do(t, formRequest("/login", url.Values{"email": {"demo@example.com"}, "password": {"password123"}}), nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/dashboard", resp.Header.Get("Location"))
	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	return cookie
}

func TestIndexRedirects(t *testing.T) {
	env := newTestEnv(t, 5)

	resp := env.do(t, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	cookie := env.login(t)
	resp = env.do(t, httptest.NewRequest(http.MethodGet, "/", nil), cookie)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
}

func TestLoginStartsSession(t *testing.T) {
	env := newTestEnv(t, 5)
	cookie := env.login(t)

	resp := env.do(t, httptest.NewRequest(http.MethodGet, "/whoami", nil), cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Demo User "+model.DefaultAvatarURL, readBody(t, resp))
}

func TestLoginFailureRerenders(t *testing.T) {
	env := newTestEnv(t, 5)

	resp := env.do(t, formRequest("/login", url.Values{"email": {"demo@example.com"}, "password": {"nope"}}), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Invalid email or password")
	n, err := testutil.GatherAndCount(env.metrics.Registry(), "inventory_auth_login_attempts_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLoginIsThrottled(t *testing.T) {
	env := newTestEnv(t, 2)
	form := url.Values{"email": {"demo@example.com"}, "password": {"nope"}}

	for i := 0; i < 2; i++ {
		resp := env.do(t, formRequest("/login", form), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp := env.do(t, formRequest("/login", form), nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Too many login attempts")
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t, 5)

	resp := env.do(t, formRequest("/register", url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "password": {"secret1"}}), nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	require.NotNil(t, env.uc.registered)
	assert.Equal(t, "ada@example.com", env.uc.registered.Email)

	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	resp = env.do(t, httptest.NewRequest(http.MethodGet, "/login", nil), cookie)
	assert.Contains(t, readBody(t, resp), "Registration successful! Please login.")
}

func TestRegisterFailures(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{user.ErrEmailTaken, "Email already registered! Please use a different email."},
		{&validation.Error{Field: "Password", Tag: "min", Message: "Password must be at least 6 characters."}, "Password must be at least 6 characters."},
		{errors.New("connection reset"), "Error creating account. Please try again."},
	}
	for _, tc := range cases {
		env := newTestEnv(t, 5)
		env.uc.registerErr = tc.err

		resp := env.do(t, formRequest("/register", url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "password": {"secret1"}}), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), tc.want)
	}
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t, 5)
	cookie := env.login(t)

	resp := env.do(t, httptest.NewRequest(http.MethodGet, "/logout", nil), cookie)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp = env.do(t, httptest.NewRequest(http.MethodGet, "/whoami", nil), cookie)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := w.CreateFormFile("profileImage", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload-profile-image", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload
}

func TestUploadProfileImage(t *testing.T) {
	env := newTestEnv(t, 5)
	cookie := env.login(t)

	resp := env.do(t, uploadRequest(t, "my photo.png", []byte("png")), cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	payload := decode(t, resp)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "/static/uploads/profile_images/1_my_photo.png", payload["imageUrl"])
	assert.Equal(t, "/static/uploads/profile_images/1_my_photo.png", env.uc.images[1])

	data, err := os.ReadFile(filepath.Join(env.dir, "1_my_photo.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	resp = env.do(t, httptest.NewRequest(http.MethodGet, "/whoami", nil), cookie)
	assert.Equal(t, "Demo User /static/uploads/profile_images/1_my_photo.png", readBody(t, resp))
}

func TestUploadProfileImageRejects(t *testing.T) {
	env := newTestEnv(t, 5)
	cookie := env.login(t)

	cases := []struct {
		filename string
		content  []byte
		status   int
		message  string
	}{
		{"", nil, http.StatusBadRequest, "No file selected"},
		{"script.exe", []byte("x"), http.StatusBadRequest, "Invalid file type"},
		{"big.gif", bytes.Repeat([]byte("x"), 2048), http.StatusRequestEntityTooLarge, "File too large. Max 5MB allowed."},
	}
	for _, tc := range cases {
		resp := env.do(t, uploadRequest(t, tc.filename, tc.content), cookie)
		assert.Equal(t, tc.status, resp.StatusCode, tc.message)
		payload := decode(t, resp)
		assert.Equal(t, false, payload["success"])
		assert.Equal(t, tc.message, payload["message"])
	}
	assert.Empty(t, env.uc.images)
}

func TestUploadRequiresLogin(t *testing.T) {
	env := newTestEnv(t, 5)

	resp := env.do(t, uploadRequest(t, "me.png", []byte("png")), nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Not authenticated", decode(t, resp)["message"])
}
