package handlers

import (
	"bytes"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tajious/visitdesk/internal/export"
	"github.com/tajious/visitdesk/internal/middleware"
)

const maxSnapshotSize = 20 << 20

type ExportHandler struct {
	base
	now func() time.Time
}

func NewExportHandler(auth *middleware.AuthMiddleware) *ExportHandler {
	return &ExportHandler{
		base: base{auth: auth},
		now:  time.Now,
	}
}

// Visits renders the viewer's visits as a PDF table. Admins get every visit.
func (h *ExportHandler) Visits(c *fiber.Ctx) error {
	sess := middleware.SessionFrom(c)

	var table export.Table
	if sess.Role.IsAdmin() {
		report, err := middleware.ClientFrom(c).AllVisitsReport(c.UserContext(), sess.Role)
		if err != nil {
			return h.fail(c, err, "export visits")
		}
		title := report.Title
		if title == "" {
			title = "All visits"
		}
		generated := report.GeneratedAt.Time
		if generated.IsZero() {
			generated = h.now()
		}
		table = export.VisitsTable(title, report.Visits, generated)
	} else {
		visits, err := middleware.ViewsFrom(c).Visits.Items(c.UserContext())
		if err != nil {
			return h.fail(c, err, "export visits")
		}
		table = export.VisitsTable("My visits", visits, h.now())
	}
	return h.pdf(c, "visits.pdf", func(buf *bytes.Buffer) error {
		return export.RenderTable(buf, table)
	})
}

func (h *ExportHandler) Reports(c *fiber.Ctx) error {
	reports, err := middleware.ViewsFrom(c).Reports.Items(c.UserContext())
	if err != nil {
		return h.fail(c, err, "export reports")
	}
	table := export.ReportsTable("Visit reports", reports, h.now())
	return h.pdf(c, "reports.pdf", func(buf *bytes.Buffer) error {
		return export.RenderTable(buf, table)
	})
}

// Snapshot paginates a PNG rendering of a table supplied by the front end.
func (h *ExportHandler) Snapshot(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) > maxSnapshotSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error": "Snapshot is too large",
		})
	}
	return h.pdf(c, "export.pdf", func(buf *bytes.Buffer) error {
		return export.RenderImage(buf, body)
	})
}

func (h *ExportHandler) pdf(c *fiber.Ctx, filename string, render func(*bytes.Buffer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, export.ErrEmptyImage) || errors.Is(err, export.ErrBadImage) {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(fiber.Map{
			"error": "Could not render the export: " + err.Error(),
		})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Attachment(filename)
	return c.Send(buf.Bytes())
}
