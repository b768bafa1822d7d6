package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tajious/visitdesk/internal/models"
)

type UserUpdate struct {
	Username   string      `json:"username,omitempty"`
	Email      string      `json:"email,omitempty"`
	Role       models.Role `json:"role,omitempty"`
	FirstName  string      `json:"first_name,omitempty"`
	LastName   string      `json:"last_name,omitempty"`
	Address    string      `json:"address,omitempty"`
	City       string      `json:"city,omitempty"`
	Country    string      `json:"country,omitempty"`
	PostalCode string      `json:"postal_code,omitempty"`
}

// ListUsers answer: {"users": [...]}, {"results": [...]} or a bare array,
// depending on the deployment.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var raw json.RawMessage
	if err := c.Do(ctx, http.MethodGet, "/user/users", nil, &raw); err != nil {
		return nil, err
	}
	return UnwrapList[models.User](raw, "users", "results")
}

func (c *Client) UpdateUser(ctx context.Context, id int, update UserUpdate) error {
	return c.Do(ctx, http.MethodPut, fmt.Sprintf("/user/users/%d", id), update, nil)
}

func (c *Client) ChangePassword(ctx context.Context, id int, newPassword string) error {
	body := map[string]string{"new_password": newPassword}
	return c.Do(ctx, http.MethodPut, fmt.Sprintf("/user/users/%d/change-password", id), body, nil)
}

func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.Do(ctx, http.MethodDelete, fmt.Sprintf("/user/users/%d", id), nil, nil)
}
