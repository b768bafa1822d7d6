package session

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tajious/visitdesk/internal/models"
)

const cookieLifetime = 7 * 24 * time.Hour

// CookieStore keeps the token and role in browser cookies. Requests from
// non-browser callers may send the token as a bearer header instead.
type CookieStore struct {
	mu     sync.Mutex
	c      *fiber.Ctx
	secure bool
	token  string
	role   models.Role
}

func NewCookieStore(c *fiber.Ctx, secure bool) *CookieStore {
	token := c.Cookies(TokenKey)
	if token == "" {
		if auth := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		}
	}
	var role models.Role
	if raw := c.Cookies(RoleKey); raw != "" {
		role = models.ParseRole(raw)
	}
	return &CookieStore{
		c:      c,
		secure: secure,
		token:  token,
		role:   role,
	}
}

func (s *CookieStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *CookieStore) Role() models.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.role
}

func (s *CookieStore) Save(token string, role models.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.role = role

	expires := time.Now().Add(cookieLifetime)
	s.c.Cookie(&fiber.Cookie{
		Name:     TokenKey,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   s.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	s.c.Cookie(&fiber.Cookie{
		Name:     RoleKey,
		Value:    string(role),
		Path:     "/",
		Expires:  expires,
		Secure:   s.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (s *CookieStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" && s.role == "" {
		return
	}
	s.token = ""
	s.role = ""

	expired := time.Now().Add(-time.Hour)
	for _, name := range []string{TokenKey, RoleKey} {
		s.c.Cookie(&fiber.Cookie{
			Name:     name,
			Path:     "/",
			Expires:  expired,
			HTTPOnly: name == TokenKey,
			Secure:   s.secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
}
