package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tajious/visitdesk/internal/models"
)

type VisitInput struct {
	DoctorName string `json:"doctor_name"`
	Location   string `json:"location"`
	VisitDate  string `json:"visit_date"`
	Notes      string `json:"notes,omitempty"`
}

// ListVisits fetches visits. Filters are forwarded only for admins; everyone
// else gets the server's own-visits view. Answer: {"visits": [...]}.
func (c *Client) ListVisits(ctx context.Context, role models.Role, filter models.VisitFilter) ([]models.Visit, error) {
	var opts []RequestOption
	if role.IsAdmin() && !filter.IsEmpty() {
		q := url.Values{}
		if filter.StartDate != "" {
			q.Set("start_date", filter.StartDate)
		}
		if filter.EndDate != "" {
			q.Set("end_date", filter.EndDate)
		}
		if filter.UserID != "" {
			q.Set("user_id", filter.UserID)
		}
		if filter.DoctorName != "" {
			q.Set("doctor_name", filter.DoctorName)
		}
		opts = append(opts, WithQuery(q))
	}

	var raw json.RawMessage
	if err := c.Do(ctx, http.MethodGet, "/visit/", nil, &raw, opts...); err != nil {
		return nil, err
	}
	return UnwrapList[models.Visit](raw, "visits", "results")
}

// CreateVisit logs a visit and returns its id when the API reports one.
func (c *Client) CreateVisit(ctx context.Context, in VisitInput) (int, error) {
	var raw json.RawMessage
	if err := c.Do(ctx, http.MethodPost, "/visit/", in, &raw); err != nil {
		return 0, err
	}
	return createdID(raw, "visit_id"), nil
}

func (c *Client) UpdateVisit(ctx context.Context, id int, in VisitInput) error {
	return c.Do(ctx, http.MethodPut, fmt.Sprintf("/visit/%d", id), in, nil)
}

func (c *Client) DeleteVisit(ctx context.Context, id int) error {
	return c.Do(ctx, http.MethodDelete, fmt.Sprintf("/visit/%d", id), nil, nil)
}
