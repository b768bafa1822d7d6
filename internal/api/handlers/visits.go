package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/tajious/visitdesk/internal/apiclient"
	"github.com/tajious/visitdesk/internal/middleware"
	"github.com/tajious/visitdesk/internal/models"
	"github.com/tajious/visitdesk/internal/validation"
)

type VisitHandler struct {
	base
}

func NewVisitHandler(auth *middleware.AuthMiddleware) *VisitHandler {
	return &VisitHandler{base: base{auth: auth}}
}

// List serves the cached visit list. Admin filters bypass the cache.
func (h *VisitHandler) List(c *fiber.Ctx) error {
	sess := middleware.SessionFrom(c)

	var filter models.VisitFilter
	if err := c.QueryParser(&filter); err != nil {
		return badRequest(c, errInvalidBody)
	}
	if sess.Role.IsAdmin() && !filter.IsEmpty() {
		visits, err := middleware.ClientFrom(c).ListVisits(c.UserContext(), sess.Role, filter)
		if err != nil {
			return h.fail(c, err, "view visits")
		}
		return c.JSON(fiber.Map{"visits": visits})
	}

	list := middleware.ViewsFrom(c).Visits
	var (
		visits []models.Visit
		err    error
	)
	if c.QueryBool("refresh") {
		visits, err = list.Refetch(c.UserContext())
	} else {
		visits, err = list.Items(c.UserContext())
	}
	if err != nil {
		return h.fail(c, err, "view visits")
	}
	return c.JSON(fiber.Map{"visits": visits})
}

func (h *VisitHandler) Create(c *fiber.Ctx) error {
	var form validation.VisitForm
	if err := decode(c, &form); err != nil {
		return badRequest(c, err)
	}
	sess := middleware.SessionFrom(c)
	client := middleware.ClientFrom(c)
	in := visitInput(form)

	visit, err := middleware.ViewsFrom(c).Visits.Append(c.UserContext(),
		func(ctx context.Context) (int, error) { return client.CreateVisit(ctx, in) },
		func(id int) models.Visit {
			v := visitFromForm(id, form)
			if sess.ID != nil {
				v.UserID = *sess.ID
			}
			return v
		})
	if err != nil {
		return h.fail(c, err, "log visits")
	}
	return h.created(c, visit, nil, "")
}

func (h *VisitHandler) Update(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, err)
	}
	var form validation.VisitForm
	if err := decode(c, &form); err != nil {
		return badRequest(c, err)
	}
	client := middleware.ClientFrom(c)
	list := middleware.ViewsFrom(c).Visits

	updated := visitFromForm(id, form)
	err = list.Modify(c.UserContext(), id,
		func(ctx context.Context) error { return client.UpdateVisit(ctx, id, visitInput(form)) },
		func(v *models.Visit) {
			v.DoctorName = updated.DoctorName
			v.Location = updated.Location
			v.VisitDate = updated.VisitDate
			v.Notes = updated.Notes
		})
	if err != nil {
		return h.fail(c, err, "edit this visit")
	}
	return message(c, "Visit updated successfully")
}

func (h *VisitHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, err)
	}
	client := middleware.ClientFrom(c)
	err = middleware.ViewsFrom(c).Visits.Remove(c.UserContext(), id,
		func(ctx context.Context) error { return client.DeleteVisit(ctx, id) })
	if err != nil {
		return h.fail(c, err, "delete this visit")
	}
	return message(c, "Visit deleted successfully")
}

func visitInput(form validation.VisitForm) apiclient.VisitInput {
	return apiclient.VisitInput{
		DoctorName: form.DoctorName,
		Location:   form.Location,
		VisitDate:  form.VisitDate,
		Notes:      form.Notes,
	}
}

func visitFromForm(id int, form validation.VisitForm) models.Visit {
	date, _ := models.ParseTimestamp(form.VisitDate)
	return models.Visit{
		ID:         id,
		DoctorName: form.DoctorName,
		Location:   form.Location,
		VisitDate:  date,
		Notes:      form.Notes,
	}
}
