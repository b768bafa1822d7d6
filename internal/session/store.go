package session

import (
	"sync"

	"github.com/tajious/visitdesk/internal/models"
)

// Fixed keys under which the token and last-known role are persisted.
const (
	TokenKey = "auth_token"
	RoleKey  = "user_role"
)

// TokenStore persists the bearer token and the last-known role of one viewer.
// It satisfies apiclient.Credentials.
type TokenStore interface {
	Token() string
	Role() models.Role
	Save(token string, role models.Role)
	Clear()
}

type MemoryStore struct {
	mu    sync.RWMutex
	token string
	role  models.Role
}

func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (s *MemoryStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *MemoryStore) Role() models.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

func (s *MemoryStore) Save(token string, role models.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.role = role
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.role = ""
}
