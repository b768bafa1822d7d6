package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/tajious/visitdesk/internal/apiclient"
	"github.com/tajious/visitdesk/internal/middleware"
	"github.com/tajious/visitdesk/internal/models"
	"github.com/tajious/visitdesk/internal/validation"
)

type UserHandler struct {
	base
}

func NewUserHandler(auth *middleware.AuthMiddleware) *UserHandler {
	return &UserHandler{base: base{auth: auth}}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := middleware.ViewsFrom(c).Users.Items(c.UserContext())
	if err != nil {
		return h.fail(c, err, "view users")
	}
	return c.JSON(fiber.Map{"users": users})
}

// Create registers an account. The API does not report the new id, so the
// list is reloaded instead of appended to.
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var form validation.UserForm
	if err := decode(c, &form); err != nil {
		return badRequest(c, err)
	}
	client := middleware.ClientFrom(c)
	user := apiclient.NewUser{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
		Role:     models.ParseRole(form.Role),
	}

	created, err := middleware.ViewsFrom(c).Users.Append(c.UserContext(),
		func(ctx context.Context) (int, error) { return 0, client.Register(ctx, user) },
		func(id int) models.User {
			return models.User{ID: id, Username: user.Username, Email: user.Email, Role: user.Role, IsActive: true}
		})
	if err != nil {
		return h.fail(c, err, "create users")
	}
	return h.created(c, created, nil, "")
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, err)
	}
	var form validation.UserUpdateForm
	if err := decode(c, &form); err != nil {
		return badRequest(c, err)
	}
	client := middleware.ClientFrom(c)
	update := apiclient.UserUpdate{
		Username:   form.Username,
		Email:      form.Email,
		FirstName:  form.FirstName,
		LastName:   form.LastName,
		Address:    form.Address,
		City:       form.City,
		Country:    form.Country,
		PostalCode: form.PostalCode,
	}
	if form.Role != "" {
		update.Role = models.ParseRole(form.Role)
	}

	err = middleware.ViewsFrom(c).Users.Modify(c.UserContext(), id,
		func(ctx context.Context) error { return client.UpdateUser(ctx, id, update) },
		func(u *models.User) { applyUserUpdate(u, update) })
	if err != nil {
		return h.fail(c, err, "edit this user")
	}
	return message(c, "User updated successfully")
}

func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, err)
	}
	var form validation.PasswordForm
	if err := decode(c, &form); err != nil {
		return badRequest(c, err)
	}
	if err := middleware.ClientFrom(c).ChangePassword(c.UserContext(), id, form.NewPassword); err != nil {
		return h.fail(c, err, "change this password")
	}
	return message(c, "Password changed successfully")
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return badRequest(c, err)
	}
	client := middleware.ClientFrom(c)
	err = middleware.ViewsFrom(c).Users.Remove(c.UserContext(), id,
		func(ctx context.Context) error { return client.DeleteUser(ctx, id) })
	if err != nil {
		return h.fail(c, err, "delete this user")
	}
	return message(c, "User deleted successfully")
}

// applyUserUpdate copies the fields the update sets; empty fields are left
// unchanged on the server too.
func applyUserUpdate(u *models.User, update apiclient.UserUpdate) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&u.Username, update.Username)
	set(&u.Email, update.Email)
	set(&u.FirstName, update.FirstName)
	set(&u.LastName, update.LastName)
	set(&u.Address, update.Address)
	set(&u.City, update.City)
	set(&u.Country, update.Country)
	set(&u.PostalCode, update.PostalCode)
	if update.Role != "" {
		u.Role = update.Role
	}
}
