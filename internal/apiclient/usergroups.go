package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tajious/visitdesk/internal/models"
)

type GroupInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type membership struct {
	UserIDs []int `json:"user_ids"`
}

// ListGroups answer: {"groups": [...]}, {"results": [...]} or a bare array.
func (c *Client) ListGroups(ctx context.Context) ([]models.UserGroup, error) {
	var raw json.RawMessage
	if err := c.Do(ctx, http.MethodGet, "/usergroups/", nil, &raw); err != nil {
		return nil, err
	}
	return UnwrapList[models.UserGroup](raw, "groups", "results")
}

func (c *Client) CreateGroup(ctx context.Context, in GroupInput) (int, error) {
	var raw json.RawMessage
	if err := c.Do(ctx, http.MethodPost, "/usergroups/", in, &raw); err != nil {
		return 0, err
	}
	return createdID(raw, "group_id"), nil
}

func (c *Client) UpdateGroup(ctx context.Context, id int, in GroupInput) error {
	return c.Do(ctx, http.MethodPut, fmt.Sprintf("/usergroups/%d", id), in, nil)
}

func (c *Client) DeleteGroup(ctx context.Context, id int) error {
	return c.Do(ctx, http.MethodDelete, fmt.Sprintf("/usergroups/%d", id), nil, nil)
}

func (c *Client) AssignUsers(ctx context.Context, groupID int, userIDs []int) error {
	return c.Do(ctx, http.MethodPost, fmt.Sprintf("/usergroups/%d/assign", groupID), membership{UserIDs: userIDs}, nil)
}

func (c *Client) RemoveUsers(ctx context.Context, groupID int, userIDs []int) error {
	return c.Do(ctx, http.MethodPost, fmt.Sprintf("/usergroups/%d/remove", groupID), membership{UserIDs: userIDs}, nil)
}
