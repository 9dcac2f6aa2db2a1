package dashboard

import (
	"go-lms/internal/common/api"
	"go-lms/internal/config"
	"go-lms/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DashboardApi struct {
	DashboardController *DashboardController
	Config              *config.Config
}

func NewDashboardApi(dashboardController *DashboardController, cfg *config.Config) api.Route {
	return &DashboardApi{
		DashboardController: dashboardController,
		Config:              cfg,
	}
}

func (api *DashboardApi) Setup(app *fiber.App) {
	group := app.Group("/api/dashboards", middleware.AuthMiddleware(api.Config.SkipAuth))

	group.Post("/", api.DashboardController.CreateDashboard)
	group.Get("/", api.DashboardController.ListDashboards)
	group.Get("/:id", api.DashboardController.GetDashboard)
	group.Put("/:id", api.DashboardController.UpdateDashboard)
	group.Delete("/:id", api.DashboardController.DeleteDashboard)

	group.Post("/:id/clone", api.DashboardController.CloneDashboard)
	group.Post("/:id/set-default", api.DashboardController.SetDefaultDashboard)
	group.Post("/:id/share", api.DashboardController.ShareDashboard)
}
