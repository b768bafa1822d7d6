// Package views holds the cached resource lists of each signed-in viewer.
package views

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tajious/visitdesk/internal/apiclient"
	"github.com/tajious/visitdesk/internal/models"
	"github.com/tajious/visitdesk/internal/reconcile"
)

var ErrNoClient = errors.New("views: no api client in context")

type clientKey struct{}

// WithClient attaches the request-scoped API client the lists fetch through.
// Lists outlive a single request, so they never capture a client themselves.
func WithClient(ctx context.Context, c *apiclient.Client) context.Context {
	return context.WithValue(ctx, clientKey{}, c)
}

func clientFrom(ctx context.Context) (*apiclient.Client, error) {
	c, ok := ctx.Value(clientKey{}).(*apiclient.Client)
	if !ok || c == nil {
		return nil, ErrNoClient
	}
	return c, nil
}

// Set is one viewer's cached lists.
type Set struct {
	Role          models.Role
	Visits        *reconcile.List[models.Visit]
	Categories    *reconcile.List[models.Category]
	Products      *reconcile.List[models.Product]
	Notifications *reconcile.List[models.Notification]
	Users         *reconcile.List[models.User]
	Groups        *reconcile.List[models.UserGroup]
	Reports       *reconcile.List[models.Report]
}

func NewSet(role models.Role) *Set {
	return &Set{
		Role: role,
		Visits: reconcile.New(func(ctx context.Context) ([]models.Visit, error) {
			c, err := clientFrom(ctx)
			if err != nil {
				return nil, err
			}
			return c.ListVisits(ctx, role, models.VisitFilter{})
		}, func(v models.Visit) int { return v.ID }),
		Categories: reconcile.New(func(ctx context.Context) ([]models.Category, error) {
			c, err := clientFrom(ctx)
			if err != nil {
				return nil, err
			}
			return c.ListCategories(ctx)
		}, func(v models.Category) int { return v.ID }),
		Products: reconcile.New(func(ctx context.Context) ([]models.Product, error) {
			c, err := clientFrom(ctx)
			if err != nil {
				return nil, err
			}
			return c.ListProducts(ctx)
		}, func(v models.Product) int { return v.ID }),
		Notifications: reconcile.New(func(ctx context.Context) ([]models.Notification, error) {
			c, err := clientFrom(ctx)
			if err != nil {
				return nil, err
			}
			return c.ListNotifications(ctx)
		}, func(v models.Notification) int { return v.ID }),
		Users: reconcile.New(func(ctx context.Context) ([]models.User, error) {
			c, err := clientFrom(ctx)
			if err != nil {
				return nil, err
			}
			return c.ListUsers(ctx)
		}, func(v models.User) int { return v.ID }),
		Groups: reconcile.New(func(ctx context.Context) ([]models.UserGroup, error) {
			c, err := clientFrom(ctx)
			if err != nil {
				return nil, err
			}
			return c.ListGroups(ctx)
		}, func(v models.UserGroup) int { return v.ID }),
		Reports: reconcile.New(func(ctx context.Context) ([]models.Report, error) {
			c, err := clientFrom(ctx)
			if err != nil {
				return nil, err
			}
			return c.ListReports(ctx, role)
		}, func(v models.Report) int { return v.ID }),
	}
}

type entry struct {
	set      *Set
	lastUsed time.Time
}

// Registry maps tokens to their Set. Sets unused for longer than the idle
// duration are swept.
type Registry struct {
	mu   sync.Mutex
	sets map[string]*entry
	idle time.Duration
	now  func() time.Time
}

func NewRegistry(idle time.Duration) *Registry {
	return &Registry{
		sets: make(map[string]*entry),
		idle: idle,
		now:  time.Now,
	}
}

// For returns the Set for token, creating it on first use or when the
// viewer's role changed.
func (r *Registry) For(token string, role models.Role) *Set {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweep(now)

	e, ok := r.sets[token]
	if !ok || e.set.Role != role {
		e = &entry{set: NewSet(role)}
		r.sets[token] = e
	}
	e.lastUsed = now
	return e.set
}

// Drop forgets the viewer's lists, on logout or when the token is rejected.
func (r *Registry) Drop(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sets, token)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sets)
}

func (r *Registry) sweep(now time.Time) {
	if r.idle <= 0 {
		return
	}
	for token, e := range r.sets {
		if now.Sub(e.lastUsed) > r.idle {
			delete(r.sets, token)
		}
	}
}
