package system

import (
	"context"
	"time"

	"go-lms/internal/database"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type HealthController struct {
	Mongo     *database.MongodbDB
	Warehouse *database.Warehouse
	Logger    *zap.Logger
}

func NewHealthController(mongo *database.MongodbDB, warehouse *database.Warehouse, logger *zap.Logger) *HealthController {
	return &HealthController{Mongo: mongo, Warehouse: warehouse, Logger: logger}
}

// Health godoc
// @Summary      Health check
// @Description  Reports the reachability of the dashboard store and the analytics warehouse
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /health [get]
func (h *HealthController) Health(ctx *fiber.Ctx) error {
	c, cancel := context.WithTimeout(ctx.UserContext(), 2*time.Second)
	defer cancel()

	checks := fiber.Map{}
	healthy := true

	if err := h.Mongo.DB.Client().Ping(c, nil); err != nil {
		checks["mongo"] = err.Error()
		healthy = false
	} else {
		checks["mongo"] = "ok"
	}

	// widgets degrade to fetch errors without the warehouse, so it does not fail the check
	if h.Warehouse == nil || h.Warehouse.DB == nil {
		checks["warehouse"] = "not configured"
	} else if err := h.Warehouse.DB.PingContext(c); err != nil {
		checks["warehouse"] = err.Error()
		h.Logger.Warn("warehouse ping failed", zap.Error(err))
	} else {
		checks["warehouse"] = "ok"
	}

	status := fiber.StatusOK
	state := "ok"
	if !healthy {
		status = fiber.StatusServiceUnavailable
		state = "degraded"
	}
	return ctx.Status(status).JSON(fiber.Map{"status": state, "checks": checks})
}
