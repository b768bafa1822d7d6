package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tajious/visitdesk/internal/models"
)

// ListNotifications answer: {"notifications": [...]}, newest first.
func (c *Client) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	var raw json.RawMessage
	if err := c.Do(ctx, http.MethodGet, "/notification/", nil, &raw); err != nil {
		return nil, err
	}
	return UnwrapList[models.Notification](raw, "notifications", "results")
}

func (c *Client) MarkNotificationRead(ctx context.Context, id int) error {
	return c.Do(ctx, http.MethodPut, fmt.Sprintf("/notification/%d/read", id), nil, nil)
}

func (c *Client) DeleteNotification(ctx context.Context, id int) error {
	return c.Do(ctx, http.MethodDelete, fmt.Sprintf("/notification/%d", id), nil, nil)
}
