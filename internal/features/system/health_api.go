package system

import (
	"go-lms/internal/common/api"
	"go-lms/internal/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HealthApi struct {
	Controller *HealthController
	Metrics    *metrics.Metrics
}

func NewHealthApi(controller *HealthController, m *metrics.Metrics) api.Route {
	return &HealthApi{Controller: controller, Metrics: m}
}

func (h *HealthApi) Setup(app *fiber.App) {
	app.Get("/health", h.Controller.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(h.Metrics.Registry, promhttp.HandlerOpts{})))
}
