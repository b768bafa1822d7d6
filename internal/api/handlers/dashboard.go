package handlers

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tajious/visitdesk/internal/apiclient"
	"github.com/tajious/visitdesk/internal/metrics"
	"github.com/tajious/visitdesk/internal/middleware"
	"github.com/tajious/visitdesk/internal/models"
	"golang.org/x/sync/errgroup"
)

type DashboardHandler struct {
	base
	now func() time.Time
}

func NewDashboardHandler(auth *middleware.AuthMiddleware) *DashboardHandler {
	return &DashboardHandler{
		base: base{auth: auth},
		now:  time.Now,
	}
}

type dashboardResponse struct {
	Session   *models.Session      `json:"session"`
	Metrics   metrics.Dashboard    `json:"metrics"`
	Report    *models.VisitsReport `json:"report,omitempty"`
	Users     []models.User        `json:"users,omitempty"`
	Warnings  []string             `json:"warnings,omitempty"`
	Generated time.Time            `json:"generated_at"`
}

// warnings collects the widgets that could not be filled.
type warnings struct {
	mu   sync.Mutex
	list []string
}

// soft records a failed fetch and swallows it unless it ends the session.
func (w *warnings) soft(what string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, apiclient.ErrUnauthorized) {
		return err
	}
	log.Printf("dashboard: %s unavailable: %v", what, err)
	w.mu.Lock()
	defer w.mu.Unlock()
	w.list = append(w.list, "Could not load "+what+": "+apiclient.MessageOf(err))
	return nil
}

func (h *DashboardHandler) Admin(c *fiber.Ctx) error {
	return h.render(c, true)
}

func (h *DashboardHandler) User(c *fiber.Ctx) error {
	return h.render(c, false)
}

// render fetches every list the dashboard needs concurrently. A failed list
// leaves its widgets empty; only an invalid session fails the whole page.
func (h *DashboardHandler) render(c *fiber.Ctx, admin bool) error {
	sess := middleware.SessionFrom(c)
	set := middleware.ViewsFrom(c)
	client := middleware.ClientFrom(c)

	var (
		in     = metrics.Input{Session: sess}
		report *models.VisitsReport
		warn   warnings
	)

	g, ctx := errgroup.WithContext(c.UserContext())
	g.Go(func() error {
		visits, err := set.Visits.Items(ctx)
		in.Visits = visits
		return warn.soft("visits", err)
	})
	g.Go(func() error {
		notes, err := set.Notifications.Items(ctx)
		in.Notifications = notes
		return warn.soft("notifications", err)
	})
	if sess.Role.CanManageUsers() {
		g.Go(func() error {
			users, err := set.Users.Items(ctx)
			in.Users = users
			return warn.soft("users", err)
		})
	}
	if admin {
		g.Go(func() error {
			r, err := client.AllVisitsReport(ctx, sess.Role)
			report = r
			return warn.soft("the visits report", err)
		})
	}
	if err := g.Wait(); err != nil {
		return h.fail(c, err, "view this dashboard")
	}

	now := h.now()
	resp := dashboardResponse{
		Session:   sess,
		Metrics:   metrics.Summarize(in, now),
		Report:    report,
		Warnings:  warn.list,
		Generated: now,
	}
	if admin {
		resp.Users = in.Users
	}
	return c.JSON(resp)
}

