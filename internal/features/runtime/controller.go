package runtime

import (
	"fmt"

	"go-lms/internal/common/api"
	"go-lms/internal/features/dashboard"
	"go-lms/internal/features/layout"
	"go-lms/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type ViewerController struct {
	ViewerService ViewerService
}

func NewViewerController(viewerService ViewerService) *ViewerController {
	return &ViewerController{ViewerService: viewerService}
}

func unauthorized(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
}

func queryFrom(ctx *fiber.Ctx) Query {
	bp, ok := layout.ParseBreakpoint(ctx.Query("breakpoint"))
	if !ok {
		bp = layout.LG
	}
	return Query{
		TimeRange:  dashboard.TimeRange(ctx.Query("time_range")),
		TenantID:   ctx.Query("tenant_id"),
		Breakpoint: bp,
	}
}

// GetDashboardData godoc
// @Summary Dashboard data
// @Description Fetch every widget once and return rendered output. A failing widget carries its error without failing the others
// @Tags viewer
// @Produce json
// @Param id path string true "Dashboard ID"
// @Param time_range query string false "7d, 30d, 90d, 1y, all or custom"
// @Param tenant_id query string false "Tenant override (admins only)"
// @Param breakpoint query string false "lg, md, sm, xs or xxs"
// @Success 200 {object} View
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/dashboards/{id}/data [get]
func (ctrl *ViewerController) GetDashboardData(ctx *fiber.Ctx) error {
	user, err := utils.CurrentUser(ctx)
	if err != nil {
		return unauthorized(ctx)
	}

	view, err := ctrl.ViewerService.Data(ctx.UserContext(), user, ctx.Params("id"), queryFrom(ctx))
	if err != nil {
		return api.Error(ctx, err)
	}
	return ctx.JSON(view)
}

// ExportDashboard godoc
// @Summary Export dashboard
// @Description Download the widget data as an Excel workbook, one sheet per widget
// @Tags viewer
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Dashboard ID"
// @Param time_range query string false "7d, 30d, 90d, 1y, all or custom"
// @Param tenant_id query string false "Tenant override (admins only)"
// @Success 200 {file} file
// @Failure 404 {object} map[string]interface{}
// @Router /api/dashboards/{id}/export [get]
func (ctrl *ViewerController) ExportDashboard(ctx *fiber.Ctx) error {
	user, err := utils.CurrentUser(ctx)
	if err != nil {
		return unauthorized(ctx)
	}

	data, filename, err := ctrl.ViewerService.Export(ctx.UserContext(), user, ctx.Params("id"), queryFrom(ctx))
	if err != nil {
		return api.Error(ctx, err)
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	return ctx.Send(data)
}
