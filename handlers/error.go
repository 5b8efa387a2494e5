package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"careerhub/apperr"
)

// ErrorHandler is the single translation point from the error taxonomy
// to HTTP statuses. Handlers return typed errors; nothing below this
// point writes error responses itself.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var (
		validationErr *apperr.ValidationError
		authErr       *apperr.AuthenticationError
		notFoundErr   *apperr.NotFoundError
		upstreamErr   *apperr.UpstreamError
		fiberErr      *fiber.Error
	)

	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": validationErr.Fields,
		})
	case errors.As(err, &authErr):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": authErr.Error(),
		})
	case errors.As(err, &notFoundErr):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": notFoundErr.Error(),
		})
	case errors.As(err, &upstreamErr):
		slog.Error("Upstream failure", "op", upstreamErr.Op, "error", upstreamErr.Err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": upstreamErr.Error(),
		})
	case errors.As(err, &fiberErr):
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"error": fiberErr.Message,
		})
	}

	slog.Error("Request error", "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}
