package api

import (
	"errors"
	"fmt"
	"testing"

	"go-lms/internal/common/errs"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", errs.Invalid("draft-1", "title", "title is required"), fiber.StatusBadRequest},
		{"validation list", errs.ValidationErrors{errs.Invalid("", "name", "required")}, fiber.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("load: %w", errs.NotFound("dashboard", "x")), fiber.StatusNotFound},
		{"denied", errs.ErrAccessDenied, fiber.StatusForbidden},
		{"save in flight", errs.ErrSaveInFlight, fiber.StatusConflict},
		{"closed session", errs.ErrSessionClosed, fiber.StatusGone},
		{"collaborator", errs.WrapApi(errors.New("timeout"), "fetch"), fiber.StatusBadGateway},
		{"fetch", &errs.FetchError{WidgetID: "w", Reason: "boom"}, fiber.StatusBadGateway},
		{"other", errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}
