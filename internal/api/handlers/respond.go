package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/tajious/visitdesk/internal/apiclient"
	"github.com/tajious/visitdesk/internal/middleware"
	"github.com/tajious/visitdesk/internal/reconcile"
	"github.com/tajious/visitdesk/internal/validation"
)

var (
	errInvalidBody = errors.New("Invalid request body")
	errInvalidID   = errors.New("Invalid id")
)

const genericMessage = "Something went wrong. Please try again."

// base carries what every handler needs to report failures.
type base struct {
	auth *middleware.AuthMiddleware
}

// fail answers with the response matching err. action completes the sentence
// "You don't have permission to ...".
func (b base) fail(c *fiber.Ctx, err error, action string) error {
	switch {
	case errors.Is(err, apiclient.ErrUnauthorized):
		return b.auth.Unauthorized(c)
	case errors.Is(err, apiclient.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You don't have permission to " + action + ".",
		})
	}

	status := apiclient.StatusOf(err)
	if status < 400 {
		log.Printf("handlers: %s: %v", action, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": genericMessage,
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"error": apiclient.MessageOf(err),
	})
}

// created answers 201 with the new record, adding a warning when a follow-up
// step failed after the record was created.
func (b base) created(c *fiber.Ctx, record interface{}, err error, action string) error {
	var partial *reconcile.PartialError
	if errors.As(err, &partial) {
		if errors.Is(partial.Err, apiclient.ErrUnauthorized) {
			return b.auth.Unauthorized(c)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"data":    record,
			"warning": action + " failed: " + apiclient.MessageOf(partial.Err),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": record,
	})
}

// decode parses the request body into form and validates it.
func decode(c *fiber.Ctx, form interface{}) error {
	if err := c.BodyParser(form); err != nil {
		return errInvalidBody
	}
	return validation.ValidateStruct(form)
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": validation.Message(err),
	})
}

func idParam(c *fiber.Ctx) (int, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

func message(c *fiber.Ctx, text string) error {
	return c.JSON(fiber.Map{
		"message": text,
	})
}
