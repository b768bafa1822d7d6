package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tajious/visitdesk/internal/apiclient"
	"github.com/tajious/visitdesk/internal/session"
	"github.com/tajious/visitdesk/internal/views"
)

type upstream struct {
	status int
	body   string
	calls  int32
}

func newTestApp(t *testing.T, up *upstream) (*fiber.App, *AuthMiddleware, *views.Registry) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&up.calls, 1)
		w.WriteHeader(up.status)
		_, _ = w.Write([]byte(up.body))
	}))
	t.Cleanup(srv.Close)

	api := apiclient.New(srv.URL)
	registry := views.NewRegistry(time.Minute)
	auth := NewAuthMiddleware(session.NewGate(api, session.NewMemoryCache(), time.Minute), api, registry, false)

	app := fiber.New()
	ok := func(c *fiber.Ctx) error {
		sess := SessionFrom(c)
		return c.JSON(fiber.Map{"role": sess.Role, "has_client": ClientFrom(c) != nil, "has_views": ViewsFrom(c) != nil})
	}
	app.Get("/any", auth.Require(session.RequireAny), ok)
	app.Get("/admin", auth.Require(session.RequireAdmin), ok)
	app.Get("/user", auth.Require(session.RequireUser), ok)
	return app, auth, registry
}

func get(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: session.TokenKey, Value: token})
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestRequire_NoTokenRedirectsToLogin(t *testing.T) {
	up := &upstream{status: http.StatusOK, body: `{"id":1,"role":"admin"}`}
	app, _, _ := newTestApp(t, up)

	for _, path := range []string{"/any", "/admin", "/user"} {
		resp := get(t, app, path, "")
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, session.LoginPath, resp.Header.Get("Location"), path)
	}
	assert.Zero(t, atomic.LoadInt32(&up.calls))
}

func TestRequire_RolePartitions(t *testing.T) {
	admin := &upstream{status: http.StatusOK, body: `{"id":1,"role":"admin"}`}
	app, _, _ := newTestApp(t, admin)

	resp := get(t, app, "/user", "tok")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, session.AdminHomePath, resp.Header.Get("Location"))
	assert.Equal(t, http.StatusOK, get(t, app, "/admin", "tok").StatusCode)

	marketer := &upstream{status: http.StatusOK, body: `{"id":2,"role":"marketer"}`}
	app, _, _ = newTestApp(t, marketer)

	resp = get(t, app, "/admin", "tok")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, session.UserHomePath, resp.Header.Get("Location"))

	resp = get(t, app, "/user", "tok")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "marketer", body["role"])
	assert.Equal(t, true, body["has_client"])
	assert.Equal(t, true, body["has_views"])
}

func TestRequire_UnauthorizedClearsSession(t *testing.T) {
	up := &upstream{status: http.StatusUnauthorized, body: `{"error":"Token has expired"}`}
	app, _, registry := newTestApp(t, up)
	registry.For("tok", "user")

	resp := get(t, app, "/any", "tok")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, session.LoginPath, body["redirect"])

	var cleared bool
	for _, ck := range resp.Cookies() {
		if ck.Name == session.TokenKey && ck.Value == "" {
			cleared = true
		}
	}
	assert.True(t, cleared, "token cookie is expired")
	assert.Zero(t, registry.Len())
}

func TestRequire_ServerErrorAdmitsGuest(t *testing.T) {
	up := &upstream{status: http.StatusInternalServerError, body: `{"error":"db down"}`}
	app, _, _ := newTestApp(t, up)

	resp := get(t, app, "/any", "tok")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "user", body["role"])

	resp = get(t, app, "/admin", "tok")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, session.UserHomePath, resp.Header.Get("Location"))
}

func TestRequire_BearerHeader(t *testing.T) {
	up := &upstream{status: http.StatusOK, body: `{"id":1,"role":"doctor"}`}
	app, _, _ := newTestApp(t, up)

	req := httptest.NewRequest(http.MethodGet, "/any", nil)
	req.Header.Set("Authorization", "Bearer tok")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func limitedApp(store RateLimitStore, limit int) *fiber.App {
	limiter := NewRateLimiter(store, RateLimitConfig{Enabled: true, Limit: limit, Window: time.Minute})
	app := fiber.New()
	app.Post("/login", limiter.RateLimit("login"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRateLimit_MemoryStore(t *testing.T) {
	app := limitedApp(NewMemoryStore(), 2)

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestRateLimit_Disabled(t *testing.T) {
	limiter := NewRateLimiter(NewMemoryStore(), RateLimitConfig{Enabled: false, Limit: 1, Window: time.Minute})
	app := fiber.New()
	app.Post("/login", limiter.RateLimit("login"), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

func TestMemoryStore_WindowResets(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	n, _, _ := store.Hit(context.Background(), "k", time.Minute)
	assert.Equal(t, 1, n)
	n, left, _ := store.Hit(context.Background(), "k", time.Minute)
	assert.Equal(t, 2, n)
	assert.Equal(t, time.Minute, left)

	now = now.Add(time.Minute)
	n, _, _ = store.Hit(context.Background(), "k", time.Minute)
	assert.Equal(t, 1, n)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := NewRedisStore(client)
	ctx := context.Background()

	n, ttl, err := store.Hit(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, time.Minute, ttl)

	n, _, err = store.Hit(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	mr.FastForward(2 * time.Minute)
	n, _, err = store.Hit(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	app := limitedApp(store, 1)
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}
