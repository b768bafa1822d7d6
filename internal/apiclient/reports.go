package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tajious/visitdesk/internal/models"
)

const roleHeader = "X-User-Role"

type ReportInput struct {
	VisitID    int    `json:"visit_id"`
	Title      string `json:"title"`
	ReportText string `json:"report_text"`
}

// ListReports answer: {"reports": [...]}. The server scopes the list by the
// role header.
func (c *Client) ListReports(ctx context.Context, role models.Role) ([]models.Report, error) {
	var raw json.RawMessage
	if err := c.Do(ctx, http.MethodGet, "/report/", nil, &raw, WithHeader(roleHeader, string(role))); err != nil {
		return nil, err
	}
	return UnwrapList[models.Report](raw, "reports", "results")
}

func (c *Client) CreateReport(ctx context.Context, in ReportInput) (int, error) {
	var raw json.RawMessage
	if err := c.Do(ctx, http.MethodPost, "/report/", in, &raw); err != nil {
		return 0, err
	}
	return createdID(raw, "report_id"), nil
}

func (c *Client) UpdateReport(ctx context.Context, id int, in ReportInput) error {
	return c.Do(ctx, http.MethodPut, fmt.Sprintf("/report/%d", id), in, nil)
}

// AllVisitsReport is admin only. Answer: {"report": {"title", "generated_at",
// "total_visits", "visits": [...]}}.
func (c *Client) AllVisitsReport(ctx context.Context, role models.Role) (*models.VisitsReport, error) {
	var resp struct {
		Report models.VisitsReport `json:"report"`
	}
	if err := c.Do(ctx, http.MethodGet, "/report/all-visits", nil, &resp, WithHeader(roleHeader, string(role))); err != nil {
		return nil, err
	}
	if resp.Report.Visits == nil {
		resp.Report.Visits = []models.Visit{}
	}
	return &resp.Report, nil
}
