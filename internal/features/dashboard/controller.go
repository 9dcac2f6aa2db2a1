package dashboard

import (
	"strconv"

	"go-lms/internal/common/api"
	"go-lms/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type DashboardController struct {
	DashboardService DashboardService
}

func NewDashboardController(dashboardService DashboardService) *DashboardController {
	return &DashboardController{
		DashboardService: dashboardService,
	}
}

func unauthorized(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
}

// CreateDashboard godoc
// @Summary Create dashboard
// @Description Create a new dashboard with its widgets
// @Tags dashboard
// @Accept json
// @Produce json
// @Param dashboard body DashboardRequest true "Dashboard"
// @Success 201 {object} Dashboard
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/dashboards [post]
func (ctrl *DashboardController) CreateDashboard(ctx *fiber.Ctx) error {
	user, err := utils.CurrentUser(ctx)
	if err != nil {
		return unauthorized(ctx)
	}

	var req DashboardRequest
	if err := api.Bind(ctx, &req); err != nil {
		return api.Error(ctx, err)
	}

	dashboard, err := ctrl.DashboardService.Create(ctx.UserContext(), user.UserID, req.toDashboard())
	if err != nil {
		return api.Error(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(dashboard)
}

// ListDashboards godoc
// @Summary List dashboards
// @Description Dashboards owned by or shared with the current user
// @Tags dashboard
// @Produce json
// @Param shared query bool false "Only shared (true) or only private (false)"
// @Param default query bool false "Only the default dashboard"
// @Success 200 {array} Dashboard
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/dashboards [get]
func (ctrl *DashboardController) ListDashboards(ctx *fiber.Ctx) error {
	user, err := utils.CurrentUser(ctx)
	if err != nil {
		return unauthorized(ctx)
	}

	var filter ListFilter
	if v, err := strconv.ParseBool(ctx.Query("shared")); err == nil {
		filter.Shared = &v
	}
	if v, err := strconv.ParseBool(ctx.Query("default")); err == nil {
		filter.Default = &v
	}

	dashboards, err := ctrl.DashboardService.List(ctx.UserContext(), user.UserID, filter)
	if err != nil {
		return api.Error(ctx, err)
	}

	return ctx.JSON(dashboards)
}

// GetDashboard godoc
// @Summary Get dashboard
// @Tags dashboard
// @Produce json
// @Param id path string true "Dashboard ID"
// @Success 200 {object} Dashboard
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/dashboards/{id} [get]
func (ctrl *DashboardController) GetDashboard(ctx *fiber.Ctx) error {
	user, err := utils.CurrentUser(ctx)
	if err != nil {
		return unauthorized(ctx)
	}

	dashboard, err := ctrl.DashboardService.Get(ctx.UserContext(), user.UserID, ctx.Params("id"))
	if err != nil {
		return api.Error(ctx, err)
	}

	return ctx.JSON(dashboard)
}

// UpdateDashboard godoc
// @Summary Replace dashboard
// @Description Replace metadata and the whole widget set
// @Tags dashboard
// @Accept json
// @Produce json
// @Param id path string true "Dashboard ID"
// @Param dashboard body DashboardRequest true "Dashboard"
// @Success 200 {object} Dashboard
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/dashboards/{id} [put]
func (ctrl *DashboardController) UpdateDashboard(ctx *fiber.Ctx) error {
	user, err := utils.CurrentUser(ctx)
	if err != nil {
		return unauthorized(ctx)
	}

	var req DashboardRequest
	if err := api.Bind(ctx, &req); err != nil {
		return api.Error(ctx, err)
	}

	dashboard, err := ctrl.DashboardService.Update(ctx.UserContext(), user.UserID, ctx.Params("id"), req.toDashboard())
	if err != nil {
		return api.Error(ctx, err)
	}

	return ctx.JSON(dashboard)
}

// DeleteDashboard godoc
// @Summary Delete dashboard
// @Tags dashboard
// @Param id path string true "Dashboard ID"
// @Success 204 {object} nil
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/dashboards/{id} [delete]
func (ctrl *DashboardController) DeleteDashboard(ctx *fiber.Ctx) error {
	user, err := utils.CurrentUser(ctx)
	if err != nil {
		return unauthorized(ctx)
	}

	if err := ctrl.DashboardService.Delete(ctx.UserContext(), user.UserID, ctx.Params("id")); err != nil {
		return api.Error(ctx, err)
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}

// CloneDashboard godoc
// @Summary Clone dashboard
// @Description Copy a readable dashboard into a new private dashboard of the current user
// @Tags dashboard
// @Produce json
// @Param id path string true "Dashboard ID"
// @Success 201 {object} Dashboard
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/dashboards/{id}/clone [post]
func (ctrl *DashboardController) CloneDashboard(ctx *fiber.Ctx) error {
	user, err := utils.CurrentUser(ctx)
	if err != nil {
		return unauthorized(ctx)
	}

	dashboard, err := ctrl.DashboardService.Clone(ctx.UserContext(), user.UserID, ctx.Params("id"))
	if err != nil {
		return api.Error(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(dashboard)
}

// SetDefaultDashboard godoc
// @Summary Set default dashboard
// @Description Mark the dashboard as the user's only default
// @Tags dashboard
// @Produce json
// @Param id path string true "Dashboard ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/dashboards/{id}/set-default [post]
func (ctrl *DashboardController) SetDefaultDashboard(ctx *fiber.Ctx) error {
	user, err := utils.CurrentUser(ctx)
	if err != nil {
		return unauthorized(ctx)
	}

	if err := ctrl.DashboardService.SetDefault(ctx.UserContext(), user.UserID, ctx.Params("id")); err != nil {
		return api.Error(ctx, err)
	}

	return ctx.JSON(fiber.Map{"message": "Default dashboard set successfully"})
}

// ShareDashboard godoc
// @Summary Share dashboard
// @Tags dashboard
// @Accept json
// @Produce json
// @Param id path string true "Dashboard ID"
// @Param body body ShareRequest true "Sharing flag"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/dashboards/{id}/share [post]
func (ctrl *DashboardController) ShareDashboard(ctx *fiber.Ctx) error {
	user, err := utils.CurrentUser(ctx)
	if err != nil {
		return unauthorized(ctx)
	}

	var req ShareRequest
	if err := api.Bind(ctx, &req); err != nil {
		return api.Error(ctx, err)
	}

	if err := ctrl.DashboardService.SetShared(ctx.UserContext(), user.UserID, ctx.Params("id"), *req.IsShared); err != nil {
		return api.Error(ctx, err)
	}

	return ctx.JSON(fiber.Map{"is_shared": *req.IsShared})
}
