package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tajious/visitdesk/internal/apiclient"
	"github.com/tajious/visitdesk/internal/models"
)

func newUpstream(t *testing.T, status int, body string) (*apiclient.Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/user/me", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return apiclient.New(srv.URL), &calls
}

func TestAdmit(t *testing.T) {
	admin := &models.Session{Role: models.RoleAdmin}
	marketer := &models.Session{Role: models.RoleMarketer}

	tests := []struct {
		name     string
		required Requirement
		hasToken bool
		sess     *models.Session
		want     Decision
	}{
		{"no token any", RequireAny, false, nil, RedirectLogin},
		{"no token admin", RequireAdmin, false, admin, RedirectLogin},
		{"resolving", RequireAdmin, true, nil, Suspend},
		{"admin on admin", RequireAdmin, true, admin, Allow},
		{"marketer on admin", RequireAdmin, true, marketer, RedirectUserHome},
		{"guest on admin", RequireAdmin, true, models.Guest(), RedirectUserHome},
		{"admin on user", RequireUser, true, admin, RedirectAdminHome},
		{"marketer on user", RequireUser, true, marketer, Allow},
		{"admin on any", RequireAny, true, admin, Allow},
		{"guest on any", RequireAny, true, models.Guest(), Allow},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Admit(tc.required, tc.hasToken, tc.sess))
		})
	}
}

func TestDecision_Location(t *testing.T) {
	assert.Equal(t, "/auth/login", RedirectLogin.Location())
	assert.Equal(t, "/user/dashboard", RedirectUserHome.Location())
	assert.Equal(t, "/admin/dashboard", RedirectAdminHome.Location())
	assert.Empty(t, Allow.Location())
	assert.Empty(t, Suspend.Location())
}

func TestGate_ResolveWithoutToken(t *testing.T) {
	api, calls := newUpstream(t, http.StatusOK, `{}`)
	gate := NewGate(api, NewMemoryCache(), time.Minute)

	_, err := gate.Resolve(context.Background(), NewMemoryStore(""))
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Zero(t, atomic.LoadInt32(calls))
}

func TestGate_ResolveNormalizesRole(t *testing.T) {
	api, _ := newUpstream(t, http.StatusOK, `{"id":7,"username":"amina","email":"amina@example.com","role":"ADMIN"}`)
	gate := NewGate(api, NewMemoryCache(), time.Minute)
	store := NewMemoryStore("tok")

	sess, err := gate.Resolve(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, sess.Role)
	require.NotNil(t, sess.ID)
	assert.Equal(t, 7, *sess.ID)
	assert.Equal(t, models.RoleAdmin, store.Role())
	assert.Equal(t, "tok", store.Token())
}

func TestGate_ResolveMissingRoleIsUser(t *testing.T) {
	api, _ := newUpstream(t, http.StatusOK, `{"id":3,"username":"kip"}`)
	gate := NewGate(api, NewMemoryCache(), time.Minute)

	sess, err := gate.Resolve(context.Background(), NewMemoryStore("tok"))
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, sess.Role)
}

func TestGate_ResolveUnauthorizedClearsStore(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusUnprocessableEntity} {
		api, _ := newUpstream(t, status, `{"error":"Token has expired"}`)
		gate := NewGate(api, NewMemoryCache(), time.Minute)
		store := NewMemoryStore("tok")
		store.Save("tok", models.RoleAdmin)

		sess, err := gate.Resolve(context.Background(), store)
		assert.Nil(t, sess)
		assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
		assert.Empty(t, store.Token())
		assert.Empty(t, store.Role())
	}
}

func TestGate_ResolveServerErrorIsGuest(t *testing.T) {
	api, calls := newUpstream(t, http.StatusInternalServerError, `{"error":"boom"}`)
	gate := NewGate(api, NewMemoryCache(), time.Minute)
	store := NewMemoryStore("tok")

	sess, err := gate.Resolve(context.Background(), store)
	require.NoError(t, err)
	assert.True(t, sess.IsGuest())
	assert.Equal(t, models.RoleUser, sess.Role)
	assert.Equal(t, "tok", store.Token())

	_, err = gate.Resolve(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls), "guest sessions are not cached")
}

func TestGate_ResolveUsesCache(t *testing.T) {
	api, calls := newUpstream(t, http.StatusOK, `{"id":1,"username":"amina","role":"marketer"}`)
	gate := NewGate(api, NewMemoryCache(), time.Minute)

	for i := 0; i < 3; i++ {
		sess, err := gate.Resolve(context.Background(), NewMemoryStore("tok"))
		require.NoError(t, err)
		assert.Equal(t, models.RoleMarketer, sess.Role)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))

	gate.Forget(context.Background(), "tok")
	_, err := gate.Resolve(context.Background(), NewMemoryStore("tok"))
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "7",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("not-the-api-key"))
	require.NoError(t, err)
	return s
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(5 * time.Minute).Truncate(time.Second)
	got, ok := tokenExpiry(signedToken(t, exp))
	require.True(t, ok)
	assert.True(t, got.Equal(exp))

	_, ok = tokenExpiry("opaque-token")
	assert.False(t, ok)
}

func TestGate_TTLBoundedByExpiry(t *testing.T) {
	gate := NewGate(apiclient.New("http://unused"), NewMemoryCache(), time.Hour)
	now := time.Now()
	gate.now = func() time.Time { return now }

	ttl := gate.ttlFor(signedToken(t, now.Add(2*time.Minute)))
	assert.InDelta(t, (2 * time.Minute).Seconds(), ttl.Seconds(), 1)

	assert.Equal(t, time.Hour, gate.ttlFor("opaque-token"))
	assert.LessOrEqual(t, gate.ttlFor(signedToken(t, now.Add(-time.Minute))), time.Duration(0))
}

func TestMemoryCache_Expiry(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()
	sess := &models.Session{Username: "amina", Role: models.RoleAdmin}

	require.NoError(t, cache.Set(ctx, "a", sess, 20*time.Millisecond))
	got, err := cache.Get(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "amina", got.Username)

	time.Sleep(30 * time.Millisecond)
	got, err = cache.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, cache.Set(ctx, "b", sess, 0))
	got, _ = cache.Get(ctx, "b")
	assert.Nil(t, got)
}

func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cache := NewRedisCache(client)
	ctx := context.Background()
	id := 4
	sess := &models.Session{ID: &id, Username: "kip", Role: models.RoleDoctor}

	got, err := cache.Get(ctx, "tok")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, cache.Set(ctx, "tok", sess, time.Minute))
	assert.False(t, mr.Exists("session:tok"), "tokens are hashed before use as keys")
	assert.True(t, mr.Exists(cacheKey("tok")))

	got, err = cache.Get(ctx, "tok")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.RoleDoctor, got.Role)
	assert.Equal(t, 4, *got.ID)

	mr.FastForward(2 * time.Minute)
	got, err = cache.Get(ctx, "tok")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, cache.Set(ctx, "tok", sess, time.Minute))
	require.NoError(t, cache.Delete(ctx, "tok"))
	assert.False(t, mr.Exists(cacheKey("tok")))
}

func TestCookieStore(t *testing.T) {
	app := fiber.New()
	app.Get("/read", func(c *fiber.Ctx) error {
		store := NewCookieStore(c, false)
		return c.JSON(fiber.Map{"token": store.Token(), "role": store.Role()})
	})
	app.Get("/save", func(c *fiber.Ctx) error {
		NewCookieStore(c, true).Save("tok-1", models.RoleAdmin)
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/clear", func(c *fiber.Ctx) error {
		NewCookieStore(c, false).Clear()
		return c.SendStatus(fiber.StatusNoContent)
	})

	t.Run("bearer fallback", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/read", nil)
		req.Header.Set("Authorization", "Bearer abc")
		resp, err := app.Test(req)
		require.NoError(t, err)
		var body map[string]string
		require.NoError(t, jsonDecode(resp, &body))
		assert.Equal(t, "abc", body["token"])
		assert.Equal(t, "", body["role"])
	})

	t.Run("cookie wins and role parsed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/read", nil)
		req.Header.Set("Authorization", "Bearer abc")
		req.AddCookie(&http.Cookie{Name: TokenKey, Value: "from-cookie"})
		req.AddCookie(&http.Cookie{Name: RoleKey, Value: "Marketer"})
		resp, err := app.Test(req)
		require.NoError(t, err)
		var body map[string]string
		require.NoError(t, jsonDecode(resp, &body))
		assert.Equal(t, "from-cookie", body["token"])
		assert.Equal(t, "marketer", body["role"])
	})

	t.Run("save sets cookies", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/save", nil))
		require.NoError(t, err)
		cookies := map[string]*http.Cookie{}
		for _, ck := range resp.Cookies() {
			cookies[ck.Name] = ck
		}
		require.Contains(t, cookies, TokenKey)
		assert.Equal(t, "tok-1", cookies[TokenKey].Value)
		assert.True(t, cookies[TokenKey].HttpOnly)
		assert.True(t, cookies[TokenKey].Secure)
		require.Contains(t, cookies, RoleKey)
		assert.Equal(t, "admin", cookies[RoleKey].Value)
	})

	t.Run("clear expires cookies", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/clear", nil)
		req.AddCookie(&http.Cookie{Name: TokenKey, Value: "tok-1"})
		resp, err := app.Test(req)
		require.NoError(t, err)
		var names []string
		for _, ck := range resp.Cookies() {
			names = append(names, ck.Name)
		}
		assert.Contains(t, names, TokenKey)
		assert.Contains(t, names, RoleKey)
	})
}
