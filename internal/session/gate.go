package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/tajious/visitdesk/internal/apiclient"
	"github.com/tajious/visitdesk/internal/models"
)

// ErrUnauthenticated means no token is present at all.
var ErrUnauthenticated = errors.New("no session token")

// Gate is the single writer of session state: it resolves identities, records
// the last-known role and forgets tokens the API rejects.
type Gate struct {
	api   *apiclient.Client
	cache IdentityCache
	ttl   time.Duration
	now   func() time.Time
}

func NewGate(api *apiclient.Client, cache IdentityCache, ttl time.Duration) *Gate {
	return &Gate{
		api:   api,
		cache: cache,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Resolve returns the session behind the store's token.
//
// A 401/422 from the API clears the store and yields apiclient.ErrUnauthorized.
// Any other failure yields the guest session so the dashboard stays
// renderable; guest sessions are not cached.
func (g *Gate) Resolve(ctx context.Context, store TokenStore) (*models.Session, error) {
	token := store.Token()
	if token == "" {
		return nil, ErrUnauthenticated
	}

	cached, err := g.cache.Get(ctx, token)
	if err != nil {
		log.Printf("session: identity cache read failed: %v", err)
	}
	if cached != nil {
		return cached, nil
	}

	sess, err := g.api.WithCredentials(store).Me(ctx)
	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			store.Clear()
			g.Forget(ctx, token)
			return nil, fmt.Errorf("resolve session: %w", apiclient.ErrUnauthorized)
		}
		log.Printf("session: identity lookup failed, continuing as guest: %v", err)
		return models.Guest(), nil
	}

	sess.Role = models.ParseRole(string(sess.Role))
	store.Save(token, sess.Role)
	if err := g.cache.Set(ctx, token, sess, g.ttlFor(token)); err != nil {
		log.Printf("session: identity cache write failed: %v", err)
	}
	return sess, nil
}

// Forget drops the cached identity for token.
func (g *Gate) Forget(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := g.cache.Delete(ctx, token); err != nil {
		log.Printf("session: identity cache delete failed: %v", err)
	}
}

func (g *Gate) ttlFor(token string) time.Duration {
	ttl := g.ttl
	if exp, ok := tokenExpiry(token); ok {
		if left := exp.Sub(g.now()); left < ttl {
			ttl = left
		}
	}
	return ttl
}
