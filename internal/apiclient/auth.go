package apiclient

import (
	"context"
	"net/http"

	"github.com/tajious/visitdesk/internal/models"
)

// ProfileUpdate uses the camelCase keys /user/me expects on writes.
type ProfileUpdate struct {
	Username   string `json:"username,omitempty"`
	Email      string `json:"email,omitempty"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	Country    string `json:"country,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	AboutMe    string `json:"aboutMe,omitempty"`
}

type NewUser struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

// Login exchanges credentials for a token. It is the only unauthenticated call.
// Answer: {"token": "...", "role": "..."}.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	req := models.LoginRequest{Email: email, Password: password}
	if err := c.Do(ctx, http.MethodPost, "/auth/login", req, &resp, withoutAuth()); err != nil {
		return nil, err
	}
	resp.Role = models.ParseRole(string(resp.Role))
	return &resp, nil
}

// Me resolves the identity behind the bound token. The role is returned as
// sent; callers normalize it.
func (c *Client) Me(ctx context.Context) (*models.Session, error) {
	var sess models.Session
	if err := c.Do(ctx, http.MethodGet, "/user/me", nil, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (c *Client) UpdateMe(ctx context.Context, update ProfileUpdate) error {
	return c.Do(ctx, http.MethodPut, "/user/me", update, nil)
}

// Register creates a user account on behalf of an admin.
func (c *Client) Register(ctx context.Context, user NewUser) error {
	return c.Do(ctx, http.MethodPost, "/auth/register", user, nil)
}
