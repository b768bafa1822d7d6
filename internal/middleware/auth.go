package middleware

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/tajious/visitdesk/internal/apiclient"
	"github.com/tajious/visitdesk/internal/models"
	"github.com/tajious/visitdesk/internal/session"
	"github.com/tajious/visitdesk/internal/views"
)

const (
	localsToken   = "token"
	localsStore   = "token_store"
	localsSession = "session"
	localsClient  = "api_client"
	localsViews   = "views"
)

const sessionExpiredMessage = "Your session has expired. Please log in again."

// AuthMiddleware admits requests by the viewer's session and hands the
// resolved session, a token-bound API client and the viewer's cached lists to
// the handlers.
type AuthMiddleware struct {
	gate         *session.Gate
	api          *apiclient.Client
	views        *views.Registry
	cookieSecure bool
}

func NewAuthMiddleware(gate *session.Gate, api *apiclient.Client, registry *views.Registry, cookieSecure bool) *AuthMiddleware {
	return &AuthMiddleware{
		gate:         gate,
		api:          api,
		views:        registry,
		cookieSecure: cookieSecure,
	}
}

// Store returns the request's token store, creating it from the request
// cookies on first use.
func (m *AuthMiddleware) Store(c *fiber.Ctx) *session.CookieStore {
	if store, ok := c.Locals(localsStore).(*session.CookieStore); ok {
		return store
	}
	store := session.NewCookieStore(c, m.cookieSecure)
	c.Locals(localsStore, store)
	c.Locals(localsToken, store.Token())
	return store
}

// Require admits the request when the viewer's session satisfies required.
func (m *AuthMiddleware) Require(required session.Requirement) fiber.Handler {
	return func(c *fiber.Ctx) error {
		store := m.Store(c)
		token := store.Token()

		var sess *models.Session
		if token != "" {
			resolved, err := m.gate.Resolve(c.UserContext(), store)
			switch {
			case errors.Is(err, apiclient.ErrUnauthorized):
				return m.Unauthorized(c)
			case err != nil:
				log.Printf("middleware: session unresolved: %v", err)
			default:
				sess = resolved
			}
		}

		decision := session.Admit(required, token != "", sess)
		switch decision {
		case session.Allow:
		case session.Suspend:
			return c.SendStatus(fiber.StatusNoContent)
		default:
			return c.Redirect(decision.Location(), fiber.StatusSeeOther)
		}

		client := m.api.WithCredentials(store)
		c.Locals(localsSession, sess)
		c.Locals(localsClient, client)
		c.Locals(localsViews, m.views.For(token, sess.Role))
		c.SetUserContext(views.WithClient(c.UserContext(), client))
		return c.Next()
	}
}

// Unauthorized ends a session the API has rejected: the token cookies are
// cleared, cached identity and lists are dropped, and the caller is pointed at
// the login page.
func (m *AuthMiddleware) Unauthorized(c *fiber.Ctx) error {
	store := m.Store(c)
	token := TokenFrom(c)
	store.Clear()
	m.Forget(c.UserContext(), token)
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error":    sessionExpiredMessage,
		"redirect": session.LoginPath,
	})
}

// Forget drops everything cached for token.
func (m *AuthMiddleware) Forget(ctx context.Context, token string) {
	if token == "" {
		return
	}
	m.gate.Forget(ctx, token)
	m.views.Drop(token)
}

// TokenFrom is the token the request arrived with, even if it has since been
// cleared.
func TokenFrom(c *fiber.Ctx) string {
	token, _ := c.Locals(localsToken).(string)
	return token
}

func SessionFrom(c *fiber.Ctx) *models.Session {
	sess, _ := c.Locals(localsSession).(*models.Session)
	return sess
}

func ClientFrom(c *fiber.Ctx) *apiclient.Client {
	client, _ := c.Locals(localsClient).(*apiclient.Client)
	return client
}

func ViewsFrom(c *fiber.Ctx) *views.Set {
	set, _ := c.Locals(localsViews).(*views.Set)
	return set
}
