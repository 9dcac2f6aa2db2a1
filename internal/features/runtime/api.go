package runtime

import (
	"go-lms/internal/common/api"
	"go-lms/internal/config"
	"go-lms/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type ViewerApi struct {
	ViewerController *ViewerController
	LiveController   *LiveController
	Config           *config.Config
}

func NewViewerApi(viewerController *ViewerController, liveController *LiveController, cfg *config.Config) api.Route {
	return &ViewerApi{
		ViewerController: viewerController,
		LiveController:   liveController,
		Config:           cfg,
	}
}

func (api *ViewerApi) Setup(app *fiber.App) {
	auth := middleware.AuthMiddleware(api.Config.SkipAuth)

	app.Get("/api/dashboards/:id/data", auth, api.ViewerController.GetDashboardData)
	app.Get("/api/dashboards/:id/export", auth, api.ViewerController.ExportDashboard)

	app.Get("/api/dashboards/:id/live", auth, func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}, websocket.New(api.LiveController.HandleLive))
}
