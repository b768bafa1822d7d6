package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/tajious/visitdesk/internal/apiclient"
	"github.com/tajious/visitdesk/internal/middleware"
	"github.com/tajious/visitdesk/internal/models"
	"github.com/tajious/visitdesk/internal/validation"
)

type ReportHandler struct {
	base
}

func NewReportHandler(auth *middleware.AuthMiddleware) *ReportHandler {
	return &ReportHandler{base: base{auth: auth}}
}

func (h *ReportHandler) List(c *fiber.Ctx) error {
	reports, err := middleware.ViewsFrom(c).Reports.Items(c.UserContext())
	if err != nil {
		return h.fail(c, err, "view reports")
	}
	return c.JSON(fiber.Map{"reports": reports})
}

func (h *ReportHandler) Create(c *fiber.Ctx) error {
	var form validation.ReportForm
	if err := decode(c, &form); err != nil {
		return badRequest(c, err)
	}
	client := middleware.ClientFrom(c)
	in := reportInput(form)

	report, err := middleware.ViewsFrom(c).Reports.Append(c.UserContext(),
		func(ctx context.Context) (int, error) { return client.CreateReport(ctx, in) },
		func(id int) models.Report {
			return models.Report{ID: id, VisitID: in.VisitID, Title: in.Title, ReportText: in.ReportText}
		})
	if err != nil {
		return h.fail(c, err, "create reports")
	}
	return h.created(c, report, nil, "")
}

func (h *ReportHandler) Update(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, err)
	}
	var form validation.ReportForm
	if err := decode(c, &form); err != nil {
		return badRequest(c, err)
	}
	client := middleware.ClientFrom(c)
	in := reportInput(form)

	err = middleware.ViewsFrom(c).Reports.Modify(c.UserContext(), id,
		func(ctx context.Context) error { return client.UpdateReport(ctx, id, in) },
		func(r *models.Report) {
			r.VisitID = in.VisitID
			r.Title = in.Title
			r.ReportText = in.ReportText
		})
	if err != nil {
		return h.fail(c, err, "edit this report")
	}
	return message(c, "Report updated successfully")
}

// AllVisits is the admin roll-up of every visit.
func (h *ReportHandler) AllVisits(c *fiber.Ctx) error {
	sess := middleware.SessionFrom(c)
	report, err := middleware.ClientFrom(c).AllVisitsReport(c.UserContext(), sess.Role)
	if err != nil {
		return h.fail(c, err, "view the visits report")
	}
	return c.JSON(fiber.Map{"report": report})
}

func reportInput(form validation.ReportForm) apiclient.ReportInput {
	return apiclient.ReportInput{
		VisitID:    form.VisitID,
		Title:      form.Title,
		ReportText: form.ReportText,
	}
}
