package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/tajious/visitdesk/internal/apiclient"
	"github.com/tajious/visitdesk/internal/middleware"
	"github.com/tajious/visitdesk/internal/models"
	"github.com/tajious/visitdesk/internal/validation"
)

type GroupHandler struct {
	base
}

func NewGroupHandler(auth *middleware.AuthMiddleware) *GroupHandler {
	return &GroupHandler{base: base{auth: auth}}
}

func (h *GroupHandler) List(c *fiber.Ctx) error {
	groups, err := middleware.ViewsFrom(c).Groups.Items(c.UserContext())
	if err != nil {
		return h.fail(c, err, "view user groups")
	}
	return c.JSON(fiber.Map{"groups": groups})
}

func (h *GroupHandler) Create(c *fiber.Ctx) error {
	var form validation.GroupForm
	if err := decode(c, &form); err != nil {
		return badRequest(c, err)
	}
	client := middleware.ClientFrom(c)
	in := apiclient.GroupInput{Name: form.Name, Description: form.Description}

	group, err := middleware.ViewsFrom(c).Groups.Append(c.UserContext(),
		func(ctx context.Context) (int, error) { return client.CreateGroup(ctx, in) },
		func(id int) models.UserGroup {
			return models.UserGroup{ID: id, Name: in.Name, Description: in.Description}
		})
	if err != nil {
		return h.fail(c, err, "create user groups")
	}
	return h.created(c, group, nil, "")
}

func (h *GroupHandler) Update(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, err)
	}
	var form validation.GroupForm
	if err := decode(c, &form); err != nil {
		return badRequest(c, err)
	}
	client := middleware.ClientFrom(c)
	in := apiclient.GroupInput{Name: form.Name, Description: form.Description}

	err = middleware.ViewsFrom(c).Groups.Modify(c.UserContext(), id,
		func(ctx context.Context) error { return client.UpdateGroup(ctx, id, in) },
		func(g *models.UserGroup) {
			g.Name = in.Name
			g.Description = in.Description
		})
	if err != nil {
		return h.fail(c, err, "edit this user group")
	}
	return message(c, "User group updated successfully")
}

func (h *GroupHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, err)
	}
	client := middleware.ClientFrom(c)
	err = middleware.ViewsFrom(c).Groups.Remove(c.UserContext(), id,
		func(ctx context.Context) error { return client.DeleteGroup(ctx, id) })
	if err != nil {
		return h.fail(c, err, "delete this user group")
	}
	return message(c, "User group deleted successfully")
}

func (h *GroupHandler) Assign(c *fiber.Ctx) error {
	return h.membership(c, true)
}

func (h *GroupHandler) Remove(c *fiber.Ctx) error {
	return h.membership(c, false)
}

func (h *GroupHandler) membership(c *fiber.Ctx, assign bool) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, err)
	}
	var form validation.MembershipForm
	if err := decode(c, &form); err != nil {
		return badRequest(c, err)
	}
	client := middleware.ClientFrom(c)

	call := func(ctx context.Context) error { return client.RemoveUsers(ctx, id, form.UserIDs) }
	text := "Users removed from group"
	if assign {
		call = func(ctx context.Context) error { return client.AssignUsers(ctx, id, form.UserIDs) }
		text = "Users assigned to group"
	}

	err = middleware.ViewsFrom(c).Groups.Modify(c.UserContext(), id, call, func(g *models.UserGroup) {
		g.UserIDs = changeMembers(g.UserIDs, form.UserIDs, assign)
	})
	if err != nil {
		return h.fail(c, err, "change this user group")
	}
	return message(c, text)
}

func changeMembers(current, ids []int, add bool) []int {
	in := make(map[int]bool, len(ids))
	for _, id := range ids {
		in[id] = true
	}
	out := make([]int, 0, len(current)+len(ids))
	for _, id := range current {
		if add {
			delete(in, id)
			out = append(out, id)
		} else if !in[id] {
			out = append(out, id)
		}
	}
	if add {
		for _, id := range ids {
			if in[id] {
				out = append(out, id)
				in[id] = false
			}
		}
	}
	return out
}
