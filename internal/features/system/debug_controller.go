package system

import (
	"go-lms/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type DebugController struct{}

func NewDebugController() *DebugController {
	return &DebugController{}
}

// GetCurrentUser godoc
// @Summary      Get current user info
// @Description  Claims of the caller as resolved by the auth middleware
// @Tags         debug
// @Produce      json
// @Success      200  {object}  utils.UserClaims
// @Failure      401  {object}  map[string]interface{}
// @Router       /api/debug/me [get]
func (c *DebugController) GetCurrentUser(ctx *fiber.Ctx) error {
	user, err := utils.CurrentUser(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	return ctx.JSON(fiber.Map{
		"user_id":   user.UserID,
		"tenant_id": user.TenantID,
		"roles":     user.Roles,
		"is_admin":  user.IsAdmin(),
	})
}
