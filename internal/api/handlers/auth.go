package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tajious/visitdesk/internal/apiclient"
	"github.com/tajious/visitdesk/internal/middleware"
	"github.com/tajious/visitdesk/internal/session"
	"github.com/tajious/visitdesk/internal/validation"
)

type AuthHandler struct {
	base
	api  *apiclient.Client
	gate *session.Gate
}

func NewAuthHandler(auth *middleware.AuthMiddleware, api *apiclient.Client, gate *session.Gate) *AuthHandler {
	return &AuthHandler{
		base: base{auth: auth},
		api:  api,
		gate: gate,
	}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var form validation.LoginForm
	if err := decode(c, &form); err != nil {
		return badRequest(c, err)
	}

	resp, err := h.api.Login(c.UserContext(), form.Email, form.Password)
	if err != nil {
		// A rejected login is a credentials problem, not an expired session.
		if status := apiclient.StatusOf(err); status >= 400 {
			return c.Status(status).JSON(fiber.Map{
				"error": apiclient.MessageOf(err),
			})
		}
		return h.fail(c, err, "log in")
	}
	if resp.Token == "" {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Login did not return a token",
		})
	}

	store := h.auth.Store(c)
	if previous := store.Token(); previous != "" && previous != resp.Token {
		h.auth.Forget(c.UserContext(), previous)
	}
	store.Save(resp.Token, resp.Role)

	return c.JSON(fiber.Map{
		"role":     resp.Role,
		"redirect": session.HomeFor(resp.Role),
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	store := h.auth.Store(c)
	token := store.Token()
	store.Clear()
	h.auth.Forget(c.UserContext(), token)
	return c.JSON(fiber.Map{
		"message":  "Logged out",
		"redirect": session.LoginPath,
	})
}

func (h *AuthHandler) Session(c *fiber.Ctx) error {
	sess := middleware.SessionFrom(c)
	return c.JSON(fiber.Map{
		"session": sess,
		"guest":   sess.IsGuest(),
		"home":    session.HomeFor(sess.Role),
	})
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var form validation.ProfileForm
	if err := decode(c, &form); err != nil {
		return badRequest(c, err)
	}

	update := apiclient.ProfileUpdate{
		Username:   form.Username,
		Email:      form.Email,
		FirstName:  form.FirstName,
		LastName:   form.LastName,
		Address:    form.Address,
		City:       form.City,
		Country:    form.Country,
		PostalCode: form.PostalCode,
		AboutMe:    form.AboutMe,
	}
	if err := middleware.ClientFrom(c).UpdateMe(c.UserContext(), update); err != nil {
		return h.fail(c, err, "update this profile")
	}

	// The cached identity is stale now; resolve it again.
	h.gate.Forget(c.UserContext(), middleware.TokenFrom(c))
	sess, err := h.gate.Resolve(c.UserContext(), h.auth.Store(c))
	if err != nil {
		return h.fail(c, err, "view this profile")
	}
	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"session": sess,
	})
}
