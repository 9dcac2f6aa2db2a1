package api

import (
	"errors"

	"go-lms/internal/common/errs"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps an error kind to the HTTP status returned to clients.
func StatusFor(err error) int {
	var (
		fetch *errs.FetchError
		apiE  *errs.ApiError
	)
	switch {
	case errs.IsValidation(err):
		return fiber.StatusBadRequest
	case errs.IsNotFound(err):
		return fiber.StatusNotFound
	case errors.Is(err, errs.ErrAccessDenied):
		return fiber.StatusForbidden
	case errors.Is(err, errs.ErrSaveInFlight):
		return fiber.StatusConflict
	case errors.Is(err, errs.ErrSessionClosed):
		return fiber.StatusGone
	case errors.As(err, &fetch), errors.As(err, &apiE):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// Error writes err as a fiber.Map body. Validation failures also carry the per-field details.
func Error(c *fiber.Ctx, err error) error {
	body := fiber.Map{"error": err.Error()}

	var many errs.ValidationErrors
	var one *errs.ValidationError
	switch {
	case errors.As(err, &many):
		body["details"] = many
	case errors.As(err, &one):
		body["details"] = errs.ValidationErrors{one}
	}

	return c.Status(StatusFor(err)).JSON(body)
}
