package utils

import (
	"errors"

	domainerrors "upline/internal/errors"

	"github.com/gofiber/fiber/v2"
)

// Respond sends a JSON response with the specified status code.
func Respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(data)
}

// Success sends a successful JSON response.
func Success(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusOK, data)
}

// BadRequest sends a JSON error response with status 400.
func BadRequest(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusBadRequest, fiber.Map{"error": message})
}

// Unauthorized sends a JSON error response with status 401.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusUnauthorized, fiber.Map{"error": message})
}

// Forbidden sends a JSON error response with status 403.
func Forbidden(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusForbidden, fiber.Map{"error": message})
}

// NotFound sends a JSON error response with status 404.
func NotFound(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusNotFound, fiber.Map{"error": message})
}

// Conflict sends a JSON error response with status 409.
func Conflict(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusConflict, fiber.Map{"error": message})
}

// InternalError sends a JSON error response with status 500.
func InternalError(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusInternalServerError, fiber.Map{"error": message})
}

// DomainErrorResponse maps a domain error to the proper HTTP status.
// Unexpected errors collapse to a generic 500 without leaking internals.
func DomainErrorResponse(c *fiber.Ctx, err error) error {
	var domainErr *domainerrors.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Kind {
		case domainerrors.KindUnauthorized:
			return Respond(c, fiber.StatusUnauthorized, fiber.Map{"error": domainErr.Message, "code": domainErr.Code})
		case domainerrors.KindNotFound:
			return Respond(c, fiber.StatusNotFound, fiber.Map{"error": domainErr.Message, "code": domainErr.Code})
		case domainerrors.KindValidation:
			return Respond(c, fiber.StatusBadRequest, fiber.Map{"error": domainErr.Message, "code": domainErr.Code})
		case domainerrors.KindBusinessRule:
			return Respond(c, fiber.StatusUnprocessableEntity, fiber.Map{"error": domainErr.Message, "code": domainErr.Code})
		}
	}
	return InternalError(c, "internal error")
}
